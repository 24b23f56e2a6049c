package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/core/favorites"
	recipeService "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRecipes() []catalog.Recipe {
	return []catalog.Recipe{
		{ID: "r1", Name: "Tomato Soup", Rating: 4.5, NumRated: 12, Course: []string{"Soup"}, Cuisine: []string{"Italian"}, Ingredients: []string{"tomatoes", "basil"}},
		{ID: "r2", Name: "Crème Brûlée", Rating: 4.9, NumRated: 40, Course: []string{"Dessert"}, Cuisine: []string{"French"}, Keywords: []string{"custard"}},
		{ID: "r3", Name: "Caprese Salad", Rating: 4.2, NumRated: 8, Course: []string{"Salad"}, Cuisine: []string{"Italian"}, Ingredients: []string{"Tomato"}},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Debug: true, Version: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second},
		Search:      config.SearchConfig{Debounce: 30 * time.Millisecond},
		DedupWindow: time.Hour,
	}
}

type roStorage struct{ *favorites.MemoryStorage }

func (roStorage) Save(context.Context, string, []byte) error { return errors.New("read-only") }

type testServer struct {
	router  *gin.Engine
	service *recipeService.Service
}

func newTestServer(t *testing.T, store *favorites.Store, loader func(context.Context) ([]catalog.Recipe, error)) *testServer {
	t.Helper()
	cfg := testConfig()

	svc, err := recipeService.NewService(context.Background(), testRecipes(), recipeService.Options{
		Favorites: store,
		Debounce:  cfg.Search.Debounce,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return &testServer{router: SetupRouter(cfg, svc, loader), service: svc}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCatalog(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[recipeService.Snapshot](t, w)
	assert.Equal(t, []string{"r3", "r2", "r1"}, snap.All.RecipeIDs)
	assert.Len(t, snap.Courses, 3)
	assert.Len(t, snap.Cuisines, 2)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/api/v1/catalog?sort=rating", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"r2", "r1", "r3"}, decode[recipeService.Snapshot](t, w).All.RecipeIDs)

	w = s.do(http.MethodGet, "/api/v1/catalog?sort=newest", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.ErrCodeInvalidRequest, decode[common.ErrorResponse](t, w).Code)
}

func TestRecipe(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/api/v1/recipes/r2", "")
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[catalog.Recipe](t, w)
	assert.Equal(t, "Crème Brûlée", r.Name)
	assert.True(t, r.Visible)

	w = s.do(http.MethodGet, "/api/v1/recipes/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	errResp := decode[common.ErrorResponse](t, w)
	assert.Equal(t, common.ErrCodeNotFound, errResp.Code)
	assert.Contains(t, errResp.Details, "nope")
}

func TestGroups(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/api/v1/groups/cuisines", "")
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]recipeService.GroupView](t, w)
	require.Len(t, views, 2)
	assert.Equal(t, "French", views[0].DisplayName)
	assert.Equal(t, []string{"r3", "r1"}, views[1].RecipeIDs)

	w = s.do(http.MethodGet, "/api/v1/groups/course/soup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"r1"}, decode[recipeService.GroupView](t, w).RecipeIDs)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/groups/cuisine/thai", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/groups/region", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/groups/all/all", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/groups/all/soup", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/groups/favorites/whatever", "").Code)
}

func TestSetSort(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPut, "/api/v1/sort", `{"criterion":"numRated"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.ByNumRated, s.service.Sort())

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/sort", `{"criterion":"date"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/sort", `{}`).Code)
	assert.Equal(t, catalog.ByNumRated, s.service.Sort())
}

func TestSearch(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/api/v1/search", `{"query":"tomato","immediate":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, true, resp["applied"])
	assert.EqualValues(t, 2, resp["visible_count"])

	w = s.do(http.MethodPost, "/api/v1/search", `{"query":"custard"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "tomato", s.service.Query())

	require.Eventually(t, func() bool { return s.service.Query() == "custard" }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"r2"}, s.service.Views().All.RecipeIDs)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/search", `not json`).Code)
}

func TestFavorites(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/api/v1/favorites/r1/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"id": "r1", "favorited": true}, decode[map[string]any](t, w))

	w = s.do(http.MethodGet, "/api/v1/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"r1"}, decode[recipeService.GroupView](t, w).RecipeIDs)

	w = s.do(http.MethodPost, "/api/v1/favorites/ghost/toggle", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (s *testServer) toggle(id, idempotencyKey string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/"+id+"/toggle", nil)
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}
	s.router.ServeHTTP(w, req)
	return w
}

func TestFavorites_ToggleTwiceUnfavorites(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.toggle("r1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["favorited"])

	time.Sleep(50 * time.Millisecond)
	w = s.toggle("r1", "")
	require.Equal(t, http.StatusOK, w.Code, "a second toggle inside the dedup window is a real un-toggle")
	assert.Equal(t, false, decode[map[string]any](t, w)["favorited"])

	assert.Empty(t, s.service.Favorites())
	w = s.do(http.MethodGet, "/api/v1/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[recipeService.GroupView](t, w).RecipeIDs)
}

func TestFavorites_ReplayedIdempotencyKey(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	require.Equal(t, http.StatusOK, s.toggle("r2", "click-1").Code)
	w := s.toggle("r2", "click-1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, common.ErrCodeConflict, decode[common.ErrorResponse](t, w).Code)
	assert.Equal(t, []string{"r2"}, s.service.Favorites(), "replay does not flip again")

	require.Equal(t, http.StatusOK, s.toggle("r2", "click-2").Code)
	assert.Empty(t, s.service.Favorites())
}

func TestFavorites_PersistFailure(t *testing.T) {
	t.Parallel()

	store, err := favorites.New(context.Background(), roStorage{favorites.NewMemoryStorage()}, "favorites")
	require.NoError(t, err)
	s := newTestServer(t, store, nil)

	w := s.do(http.MethodPost, "/api/v1/favorites/r2/toggle", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.ErrCodePersistFailed, decode[common.ErrorResponse](t, w).Code)
	assert.Empty(t, s.service.Favorites())
}

func TestFilter(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/api/v1/filter", `{"ingredients":["tomato"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, resp["count"])
	assert.Equal(t, []any{"r3", "r1"}, resp["recipe_ids"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/filter", `{"min_rating":-1}`).Code)
}

func TestReload(t *testing.T) {
	t.Parallel()

	calls := 0
	loader := func(context.Context) ([]catalog.Recipe, error) {
		calls++
		if calls > 1 {
			return nil, catalog.ErrParse
		}
		return append(testRecipes(), catalog.Recipe{ID: "r4", Name: "Pho", Rating: 4.7, NumRated: 30, Cuisine: []string{"Vietnamese"}}), nil
	}
	s := newTestServer(t, nil, loader)

	w := s.do(http.MethodPost, "/api/v1/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, s.service.Stats().Recipes)

	w = s.do(http.MethodPost, "/api/v1/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, common.ErrCodeParseError, decode[common.ErrorResponse](t, w).Code)
	assert.Equal(t, 4, s.service.Stats().Recipes, "failed reload keeps the catalog")
}

func TestReload_NoLoader(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodPost, "/api/v1/reload", "").Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "test", resp["version"])
	catalogStats := resp["catalog"].(map[string]any)
	assert.EqualValues(t, 3, catalogStats["recipes"])

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/live", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/nowhere", "").Code)
}

func TestReady_EmptyCatalog(t *testing.T) {
	t.Parallel()

	svc, err := recipeService.NewService(context.Background(), nil, recipeService.Options{})
	require.NoError(t, err)
	defer svc.Close()

	w := httptest.NewRecorder()
	SetupRouter(testConfig(), svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

package recipe

import (
	"context"
	"net/http"
	"strings"

	"recipe-catalog/internal/core/catalog"
	recipeService "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Loader 重新讀取食譜資料
type Loader func(ctx context.Context) ([]catalog.Recipe, error)

// SortRequest 變更排序
type SortRequest struct {
	Criterion string `json:"criterion" binding:"required"`
}

// SearchRequest 搜尋。Immediate 為 false 時經過延遲後才套用。
type SearchRequest struct {
	Query     string `json:"query"`
	Immediate bool   `json:"immediate"`
}

// SearchResponse 搜尋結果
type SearchResponse struct {
	Query        string `json:"query"`
	Applied      bool   `json:"applied"`
	VisibleCount int    `json:"visible_count"`
}

// ToggleResponse 收藏切換結果
type ToggleResponse struct {
	ID        string `json:"id"`
	Favorited bool   `json:"favorited"`
}

// FilterResponse 進階篩選結果
type FilterResponse struct {
	Sort      catalog.Criterion `json:"sort"`
	Count     int               `json:"count"`
	RecipeIDs []string          `json:"recipe_ids"`
}

// Handler 食譜目錄處理程序
type Handler struct {
	service *recipeService.Service
	loader  Loader
	debug   bool
}

// NewHandler 創建新的食譜目錄處理程序
func NewHandler(service *recipeService.Service, loader Loader, debug bool) *Handler {
	return &Handler{
		service: service,
		loader:  loader,
		debug:   debug,
	}
}

// GetCatalog 回傳整個目錄的顯示資料，sort 參數只影響此次回應
func (h *Handler) GetCatalog(c *gin.Context) {
	sortParam := strings.TrimSpace(c.Query("sort"))
	if sortParam == "" {
		c.JSON(http.StatusOK, h.service.Views())
		return
	}

	snap, err := h.service.ViewsSortedBy(catalog.Criterion(sortParam))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetRecipe 回傳單一食譜
func (h *Handler) GetRecipe(c *gin.Context) {
	r, err := h.service.Recipe(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListGroups 回傳 courses 或 cuisines 的所有分組
func (h *Handler) ListGroups(c *gin.Context) {
	views, err := h.service.GroupList(c.Param("kind"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetGroup 回傳單一分組
func (h *Handler) GetGroup(c *gin.Context) {
	view, err := h.service.Group(c.Param("kind"), c.Param("key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetSort 變更排序方式
func (h *Handler) SetSort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	criterion, err := catalog.ParseCriterion(req.Criterion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	effect, err := h.service.Dispatch(c.Request.Context(), recipeService.SetSort{Criterion: criterion})
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.LogInfo("sort changed",
		zap.String("criterion", string(criterion)),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusOK, effect)
}

// Search 立即或延遲套用搜尋字串
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if !req.Immediate {
		h.service.QueryChanged(req.Query)
		c.JSON(http.StatusAccepted, SearchResponse{Query: req.Query})
		return
	}

	effect, err := h.service.Dispatch(c.Request.Context(), recipeService.ApplyQuery{Query: req.Query})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{
		Query:        req.Query,
		Applied:      true,
		VisibleCount: effect.VisibleCount,
	})
}

// GetFavorites 回傳收藏分組
func (h *Handler) GetFavorites(c *gin.Context) {
	view, err := h.service.Group(recipeService.KindFavorites, "")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleFavorite 切換收藏
func (h *Handler) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")
	effect, err := h.service.Dispatch(c.Request.Context(), recipeService.ToggleFavorite{ID: id})
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.LogInfo("favorite toggled",
		zap.String("recipe_id", id),
		zap.Bool("favorited", effect.Favorited),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusOK, ToggleResponse{ID: id, Favorited: effect.Favorited})
}

// Filter 進階篩選
func (h *Handler) Filter(c *gin.Context) {
	var f catalog.RecipeFilter
	if err := c.ShouldBindJSON(&f); err != nil {
		h.badRequest(c, err)
		return
	}

	ids, err := h.service.Filter(f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FilterResponse{Sort: h.service.Sort(), Count: len(ids), RecipeIDs: ids})
}

// Reload 從設定的來源重新載入目錄
func (h *Handler) Reload(c *gin.Context) {
	if h.loader == nil {
		h.respondError(c, common.ErrServiceUnavailable)
		return
	}

	recipes, err := h.loader(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	effect, err := h.service.Dispatch(c.Request.Context(), recipeService.Reload{Recipes: recipes})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"effect": effect,
		"stats":  h.service.Stats(),
	})
}

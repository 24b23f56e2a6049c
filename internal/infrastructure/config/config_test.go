package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipe-catalog/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "recipes.json", cfg.Catalog.Source)
	assert.Equal(t, "en", cfg.Catalog.Locale)
	assert.Equal(t, "name", cfg.Catalog.DefaultSort)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, BackendMemory, cfg.Favorites.Backend)
	assert.Equal(t, "favorites", cfg.Favorites.Key)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "https://example.com/recipes.json")
	t.Setenv("CATALOG_DEFAULT_SORT", "rating")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("FAVORITES_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/recipes.json", cfg.Catalog.Source)
	assert.Equal(t, "rating", cfg.Catalog.DefaultSort)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, BackendRedis, cfg.Favorites.Backend)
	assert.Equal(t, "cache:6380", cfg.Favorites.Redis.Addr)
	assert.Equal(t, 2, cfg.Favorites.Redis.DB)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_LOCALE=fr\nFAVORITES_BACKEND=file\nFAVORITES_FILE_DIR=/tmp/favs\n"), 0644))
	// godotenv 不覆蓋既有變數，測試結束後清掉它寫入的值
	for _, key := range []string{"CATALOG_LOCALE", "FAVORITES_BACKEND", "FAVORITES_FILE_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.Catalog.Locale)
	assert.Equal(t, BackendFile, cfg.Favorites.Backend)
	assert.Equal(t, "/tmp/favs", cfg.Favorites.FileDir)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown sort":    {"CATALOG_DEFAULT_SORT": "newest"},
		"unknown backend": {"FAVORITES_BACKEND": "sqlite"},
		"bad port":        {"PORT": "70000"},
		"empty source":    {"CATALOG_SOURCE": " "},
		"bad rate limit":  {"RATE_LIMIT_REQUESTS": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_DefaultSortUsesCatalogCriteria(t *testing.T) {
	for _, c := range catalog.Criteria() {
		t.Setenv("CATALOG_DEFAULT_SORT", string(c))
		cfg, err := Load("")
		require.NoError(t, err, c)
		assert.Equal(t, string(c), cfg.Catalog.DefaultSort)
	}

	t.Setenv("CATALOG_DEFAULT_SORT", "newest")
	_, err := Load("")
	assert.ErrorIs(t, err, catalog.ErrInvalidArgument)
}

func TestLoad_LogLevelIsTopLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

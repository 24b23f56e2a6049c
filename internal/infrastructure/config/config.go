package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"recipe-catalog/internal/core/catalog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Search      SearchConfig    `mapstructure:"search"`
	Favorites   FavoritesConfig `mapstructure:"favorites"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// CatalogConfig 食譜資料來源與排序設定
type CatalogConfig struct {
	Source      string `mapstructure:"source"` // 檔案路徑或 http(s) URL
	Locale      string `mapstructure:"locale"`
	DefaultSort string `mapstructure:"default_sort"`
}

// SearchConfig 搜尋設定
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// FavoritesConfig 收藏持久化設定
type FavoritesConfig struct {
	Backend       string      `mapstructure:"backend"` // memory、file 或 redis
	Key           string      `mapstructure:"key"`
	FileDir       string      `mapstructure:"file_dir"`
	PruneOnReload bool        `mapstructure:"prune_on_reload"`
	Redis         RedisConfig `mapstructure:"redis"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// 收藏後端
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// LoadConfig 從目前目錄的 .env 與環境變數載入設定
func LoadConfig() (*Config, error) {
	return Load(".env")
}

// Load 載入設定。envFile 不存在時只使用預設值與環境變數。
func Load(envFile string) (*Config, error) {
	// 加載 .env 文件
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"catalog.source":           "CATALOG_SOURCE",
		"catalog.locale":           "CATALOG_LOCALE",
		"catalog.default_sort":     "CATALOG_DEFAULT_SORT",
		"search.debounce":          "SEARCH_DEBOUNCE",
		"favorites.backend":        "FAVORITES_BACKEND",
		"favorites.key":            "FAVORITES_KEY",
		"favorites.file_dir":       "FAVORITES_FILE_DIR",
		"favorites.redis.addr":     "REDIS_ADDR",
		"favorites.redis.password": "REDIS_PASSWORD",
		"favorites.redis.db":       "REDIS_DB",
		"rate_limit.enabled":       "RATE_LIMIT_ENABLED",
		"rate_limit.requests":      "RATE_LIMIT_REQUESTS",
		"rate_limit.window":        "RATE_LIMIT_WINDOW",
		"dedup_window":             "DEDUP_WINDOW",
		"log_level":                "LOG_LEVEL",
		"log_file":                 "LOG_FILE",
		"server.port":              "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-catalog")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// 目錄設定
	v.SetDefault("catalog.source", "recipes.json")
	v.SetDefault("catalog.locale", "en")
	v.SetDefault("catalog.default_sort", "name")

	// 搜尋設定
	v.SetDefault("search.debounce", "500ms")

	// 收藏設定
	v.SetDefault("favorites.backend", BackendMemory)
	v.SetDefault("favorites.key", "favorites")
	v.SetDefault("favorites.file_dir", "data")
	v.SetDefault("favorites.prune_on_reload", false)
	v.SetDefault("favorites.redis.addr", "localhost:6379")
	v.SetDefault("favorites.redis.db", 0)
	v.SetDefault("favorites.redis.prefix", "recipe-catalog")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}

	// 驗證目錄設定
	if strings.TrimSpace(config.Catalog.Source) == "" {
		return fmt.Errorf("catalog source is required")
	}
	if _, err := catalog.ParseCriterion(config.Catalog.DefaultSort); err != nil {
		return fmt.Errorf("default sort: %w", err)
	}

	if config.Search.Debounce < 0 {
		return fmt.Errorf("invalid search debounce")
	}

	// 驗證收藏設定
	switch config.Favorites.Backend {
	case BackendMemory:
	case BackendFile:
		if config.Favorites.FileDir == "" {
			return fmt.Errorf("favorites file_dir is required for the file backend")
		}
	case BackendRedis:
		if config.Favorites.Redis.Addr == "" {
			return fmt.Errorf("favorites redis addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown favorites backend %q", config.Favorites.Backend)
	}

	// 驗證限流設定
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-catalog/internal/api"
	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/core/favorites"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("starting application",
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("favorites_backend", cfg.Favorites.Backend),
	)

	ctx := context.Background()

	// 初始化收藏儲存
	storage, closeStorage, err := newFavoritesStorage(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize favorites storage", zap.Error(err))
	}
	defer closeStorage()

	store, err := favorites.New(ctx, storage, cfg.Favorites.Key)
	if err != nil {
		common.LogFatal("Failed to load favorites", zap.Error(err))
	}

	sorter, err := catalog.NewSorterForLocale(cfg.Catalog.Locale)
	if err != nil {
		common.LogFatal("Invalid catalog locale", zap.Error(err))
	}

	// 載入食譜
	loader := func(ctx context.Context) ([]catalog.Recipe, error) {
		return recipe.LoadRecipes(ctx, cfg.Catalog.Source)
	}
	recipes, err := loader(ctx)
	if err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	svc, err := recipe.NewService(ctx, recipes, recipe.Options{
		Sorter:         sorter,
		Favorites:      store,
		DefaultSort:    catalog.Criterion(cfg.Catalog.DefaultSort),
		Debounce:       cfg.Search.Debounce,
		PruneFavorites: cfg.Favorites.PruneOnReload,
	})
	if err != nil {
		common.LogFatal("Failed to build catalog", zap.Error(err))
	}
	defer svc.Close()

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.SetupRouter(cfg, svc, loader),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newFavoritesStorage 依設定建立收藏後端
func newFavoritesStorage(ctx context.Context, cfg *config.Config) (favorites.Storage, func(), error) {
	noop := func() {}

	switch cfg.Favorites.Backend {
	case config.BackendFile:
		s, err := favorites.NewFileStorage(cfg.Favorites.FileDir)
		return s, noop, err
	case config.BackendRedis:
		s, err := favorites.NewRedisStorage(ctx, favorites.RedisOptions{
			Addr:     cfg.Favorites.Redis.Addr,
			Password: cfg.Favorites.Redis.Password,
			DB:       cfg.Favorites.Redis.DB,
			Prefix:   cfg.Favorites.Redis.Prefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return favorites.NewMemoryStorage(), noop, nil
	}
}

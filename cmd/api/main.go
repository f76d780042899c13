package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ingredient-guide/internal/api"
	"ingredient-guide/internal/core/ai/provider"
	"ingredient-guide/internal/core/ingredient"
	"ingredient-guide/internal/core/ingredient/store"
	"ingredient-guide/internal/core/ratelimit"
	"ingredient-guide/internal/infrastructure/config"
	"ingredient-guide/internal/infrastructure/metrics"
	"ingredient-guide/internal/pkg/common"

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
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("provider", cfg.Generator.Provider),
		zap.String("gemini_api_key", cfg.Gemini.APIKey),
		zap.String("openrouter_api_key", cfg.OpenRouter.APIKey),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("postgres_dsn", cfg.Postgres.DSN),
	)

	ctx := context.Background()

	// 初始化儲存層
	records, err := store.Open(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to open record store", zap.Error(err))
	}

	generator, err := provider.New(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize generator", zap.Error(err))
	}

	m := metrics.New()
	writeBack := ingredient.NewWriteBack(records, cfg.WriteBack.Workers, cfg.WriteBack.QueueSize, cfg.WriteBack.Timeout, m)
	resolver := ingredient.NewResolver(records, generator, writeBack,
		ingredient.WithMetrics(m),
		ingredient.WithMaxQueryLength(cfg.Search.MaxQueryLength),
		ingredient.WithGenerateTimeout(cfg.Generator.Timeout),
	)

	var limiter *ratelimit.FixedWindow
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewFixedWindow(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Resolver:  resolver,
		Limiter:   limiter,
		Store:     records,
		WriteBack: writeBack,
		Metrics:   m,
	})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	// 先送出佇列中的寫回，再關閉儲存層
	writeBack.Close()
	if err := records.Close(); err != nil {
		common.LogError("Failed to close record store", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

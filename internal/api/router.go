package api

import (
	"fmt"
	"time"

	"ingredient-guide/internal/api/handlers/health"
	ingredientHandler "ingredient-guide/internal/api/handlers/ingredient"
	"ingredient-guide/internal/api/middleware"
	"ingredient-guide/internal/core/ratelimit"
	"ingredient-guide/internal/infrastructure/config"
	"ingredient-guide/internal/infrastructure/metrics"
	"ingredient-guide/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由使用的服務
type Dependencies struct {
	Resolver ingredientHandler.Resolver
	// Limiter 為 nil 時不限流
	Limiter   *ratelimit.FixedWindow
	Store     health.Pinger
	WriteBack health.QueueReporter
	Metrics   *metrics.Metrics
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Store, deps.WriteBack)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if cfg.Metrics.Enabled && deps.Metrics != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	searchHandler := ingredientHandler.NewHandler(deps.Resolver, cfg.Search.MaxQueryLength)

	search := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		search = append(search, middleware.RateLimit(deps.Limiter, deps.Metrics))
	}
	search = append(search, searchHandler.Search)

	router.GET("/api/search", search...)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/ingredients/search", search...)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(common.ErrNotFound.Status, common.FailureResponse(common.ErrNotFound))
	})

	common.LogInfo("Router setup completed",
		zap.Bool("rate_limit", deps.Limiter != nil),
		zap.Bool("metrics", cfg.Metrics.Enabled && deps.Metrics != nil),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
	)

	return router, nil
}

// corsConfig 包含 "*" 時允許所有來源
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}

package api

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"kitchen-companion/internal/api/handlers"
	"kitchen-companion/internal/api/handlers/health"
	"kitchen-companion/internal/api/middleware"
	"kitchen-companion/internal/core/ai/cache"
	"kitchen-companion/internal/core/ai/service"
	"kitchen-companion/internal/core/enrich"
	"kitchen-companion/internal/core/metadata"
	"kitchen-companion/internal/core/user"
	"kitchen-companion/internal/infrastructure/config"
	"kitchen-companion/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, users *user.Store, metadataCache *metadata.Cache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenAI.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	aiService, err := service.NewService(cfg, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	// 初始化中繼資料查詢服務
	metadataService := metadata.NewService(cfg, metadataCache)

	// 初始化產品目錄：優先使用設定檔指定的目錄，否則使用內建目錄
	catalog := enrich.DefaultCatalog()
	if cfg.Affiliate.CatalogFile != "" {
		catalog, err = enrich.LoadCatalogFile(cfg.Affiliate.CatalogFile)
		if err != nil {
			common.LogError("Failed to load affiliate catalog", zap.Error(err))
			return nil, fmt.Errorf("failed to load affiliate catalog: %w", err)
		}
	}
	common.LogInfo("產品目錄已載入", zap.Int("entries", catalog.Len()))

	// 初始化豐富化管線
	matcher := enrich.NewMatcher(catalog, cfg.Affiliate.MaxLinks, cfg.Affiliate.FallbackCount, rand.NewSource(time.Now().UnixNano()))
	pipeline := enrich.NewPipeline(aiService, metadataService, users, enrich.NewExtractor(), matcher)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快取（供健康檢查使用）
		c.Set("config", cfg)
		if cacheManager != nil {
			c.Set("cache_manager", cacheManager)
		}

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		chatHandler := handlers.NewChatHandler(pipeline, users)
		userHandler := handlers.NewUserHandler(users)

		// 聊天與豐富化
		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("/ask", chatHandler.Ask)
		}

		// 使用者庫存、偏好與收藏
		userGroup := api.Group("/users/:id")
		{
			userGroup.GET("/pantry", userHandler.GetPantry)
			userGroup.POST("/pantry", userHandler.SetPantry)
			userGroup.POST("/preferences", userHandler.SetPreferences)
			userGroup.GET("/recipes", userHandler.ListRecipes)
			userGroup.POST("/recipes", userHandler.SaveRecipe)
			userGroup.DELETE("/recipes/:recipe_id", userHandler.DeleteRecipe)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("catalog_entries", catalog.Len()),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

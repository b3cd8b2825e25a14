package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/config"
	"github.com/mystic/tarotconstellation/controllers"
	"github.com/mystic/tarotconstellation/middleware"
	"github.com/mystic/tarotconstellation/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	authController := controllers.NewAuthController(db)
	catalogController := controllers.NewCatalogController(db)
	readingController := controllers.NewReadingController(db)
	rewardController := controllers.NewRewardController(db)
	premiumController := controllers.NewPremiumController(db)
	walletController := controllers.NewWalletController(db)
	statsController := controllers.NewStatsController(db)

	r.GET("/health", statsController.Health)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public catalog endpoints
	api.GET("/app-config", catalogController.GetAppConfig)
	api.GET("/tarot-cards", catalogController.GetTarotCards)
	api.GET("/draw-cards", catalogController.DrawCards)
	api.GET("/stats", statsController.GetStats)
	api.GET("/user/profile/:userId", authController.GetProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/tarot/read", readingController.ExecuteReading)
	protected.POST("/user/watch-ad", rewardController.WatchAd)
	protected.POST("/user/daily-bonus", rewardController.DailyBonus)
	protected.PUT("/user/coins", walletController.ManageCoins)
	protected.POST("/user/subscribe", premiumController.Subscribe)
	protected.GET("/user/history/:userId", readingController.GetHistory)
	protected.GET("/user/transactions/:userId", walletController.ListTransactions)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}

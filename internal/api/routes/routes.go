package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/princeprakhar/reputation-backend/internal/api/handlers"
	"github.com/princeprakhar/reputation-backend/internal/api/middleware"
	"github.com/princeprakhar/reputation-backend/internal/config"
	"github.com/princeprakhar/reputation-backend/internal/services"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) error {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))

	// Initialize services
	authService, err := services.NewAuthService(db, cfg)
	if err != nil {
		return err
	}
	reviewService := services.NewReviewService(db)
	accountService := services.NewAccountService(db, reviewService)

	cookie := utils.SessionCookie{
		Name:   cfg.SessionCookieName,
		Secure: cfg.CookieSecure,
	}
	requireSession := middleware.AuthMiddleware(authService, cookie)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cookie)
	accountHandler := handlers.NewAccountHandler(accountService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/telegram", authHandler.TelegramLogin)
		auth.POST("/logout", authHandler.Logout)
	}

	router.GET("/me", requireSession, authHandler.Me)
	router.GET("/accounts/search", requireSession, accountHandler.Search)
	router.POST("/reviews", requireSession, reviewHandler.CreateReview)

	logger.Info("Routes initialized successfully")
	return nil
}

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princeprakhar/reputation-backend/internal/api/routes"
	"github.com/princeprakhar/reputation-backend/internal/config"
	"github.com/princeprakhar/reputation-backend/internal/database"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.Init()

	cfg := config.Load()

	dbLogLevel := gormlogger.Info
	if cfg.IsProduction() {
		dbLogLevel = gormlogger.Warn
	}
	db, err := database.Init(cfg.DatabaseURL, database.Options{
		MaxConnections: cfg.DBMaxConnections,
		LogLevel:       dbLogLevel,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	if cfg.TelegramBotToken == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set; /auth/telegram will answer 500 until it is")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	if err := routes.SetupRoutes(router, db, cfg); err != nil {
		logger.Fatal("Failed to set up routes: ", err)
	}

	logger.Info("Server starting on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", err)
	}
}

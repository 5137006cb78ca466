package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/princeprakhar/reputation-backend/internal/config"
	"github.com/princeprakhar/reputation-backend/internal/database"
	"github.com/princeprakhar/reputation-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testBotToken = "123456:TEST-bot-token"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := database.Init("sqlite://"+path, database.Options{LogLevel: gormlogger.Silent})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		TelegramBotToken:  testBotToken,
		SessionSecret:     "test-session-secret",
		SessionCookieName: "tg_auth",
		SessionTTL:        time.Hour,
		UserCacheSize:     16,
	}
}

func createUser(t *testing.T, db *gorm.DB, telegramID int64, username string) *models.User {
	t.Helper()

	user := models.User{TelegramID: telegramID, Username: username, DisplayName: username}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// insertRivalAccountOnMiss makes the first empty lookup of social_accounts
// insert the same (platform, handle) with the given id on the caller's
// connection, so the row exists by the time the caller tries its own insert.
func insertRivalAccountOnMiss(t *testing.T, db *gorm.DB, id uint, platform models.Platform, handle string) {
	t.Helper()

	fired := false
	err := db.Callback().Query().After("gorm:query").Register("test:rival_account", func(d *gorm.DB) {
		if fired || d.Statement.Table != "social_accounts" || d.RowsAffected != 0 {
			return
		}
		fired = true

		now := time.Now().UTC()
		_, err := d.Statement.ConnPool.ExecContext(d.Statement.Context,
			"INSERT INTO social_accounts (id, platform, handle, rating, reviews_count, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)",
			id, int(platform), handle, models.InitialRating, now, now)
		if err != nil {
			d.AddError(err)
		}
	})
	require.NoError(t, err)
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment        string
	Port               string
	DatabaseURL        string
	DBMaxConnections   int
	TelegramBotToken   string
	TelegramAuthMaxAge time.Duration // zero disables the auth_date freshness check
	SessionSecret      string
	SessionCookieName  string
	SessionTTL         time.Duration
	CookieSecure       bool
	CORSAllowedOrigins []string
	UserCacheSize      int
}

func Load() *Config {
	environment := getEnv("ENVIRONMENT", "development")
	dbMaxConns, _ := strconv.Atoi(getEnv("DB_MAX_CONNECTIONS", "40"))
	userCacheSize, _ := strconv.Atoi(getEnv("USER_CACHE_SIZE", "1024"))
	authMaxAge, _ := time.ParseDuration(getEnv("TELEGRAM_AUTH_MAX_AGE", "0"))
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "336h"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 14 * 24 * time.Hour
	}
	cookieSecure, err := strconv.ParseBool(getEnv("COOKIE_SECURE", strconv.FormatBool(environment == "production")))
	if err != nil {
		cookieSecure = environment == "production"
	}

	return &Config{
		Environment:        environment,
		Port:               getEnv("PORT", "5185"),
		DatabaseURL:        getEnv("DATABASE_URL", "sqlite://data/app.db"),
		DBMaxConnections:   dbMaxConns,
		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAuthMaxAge: authMaxAge,
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionCookieName:  getEnv("SESSION_COOKIE_NAME", "tg_auth"),
		SessionTTL:         sessionTTL,
		CookieSecure:       cookieSecure,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		UserCacheSize:      userCacheSize,
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

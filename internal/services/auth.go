package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/princeprakhar/reputation-backend/internal/config"
	"github.com/princeprakhar/reputation-backend/internal/metrics"
	"github.com/princeprakhar/reputation-backend/internal/models"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxAuthDateSkew is how far in the future an auth_date may lie when the
// freshness check is on.
const maxAuthDateSkew = 5 * time.Minute

type AuthService struct {
	db            *gorm.DB
	botToken      string
	authMaxAge    time.Duration
	sessionSecret string
	sessionTTL    time.Duration

	// users never change after creation, so cached rows cannot go stale
	userCache *lru.Cache[uint, *models.User]

	now func() time.Time
}

// SessionTicket is a freshly signed session cookie value.
type SessionTicket struct {
	SessionID string
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config) (*AuthService, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		generated, err := utils.GenerateRandomString(32)
		if err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
		secret = generated
		logger.Warn("SESSION_SECRET is not set, using a random secret; sessions will not survive a restart")
	}

	cacheSize := cfg.UserCacheSize
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[uint, *models.User](cacheSize)
	if err != nil {
		return nil, err
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}

	return &AuthService{
		db:            db,
		botToken:      cfg.TelegramBotToken,
		authMaxAge:    cfg.TelegramAuthMaxAge,
		sessionSecret: secret,
		sessionTTL:    ttl,
		userCache:     cache,
		now:           time.Now,
	}, nil
}

// TelegramLogin checks the widget signature and returns the matching user,
// creating it on the first login for that Telegram id.
func (s *AuthService) TelegramLogin(ctx context.Context, data utils.TelegramAuthData) (*models.User, error) {
	if strings.TrimSpace(s.botToken) == "" {
		metrics.TelegramLogins.WithLabelValues("misconfigured").Inc()
		return nil, ErrBotTokenMissing
	}

	if !utils.VerifyTelegramAuth(data, s.botToken) {
		metrics.TelegramLogins.WithLabelValues("invalid_signature").Inc()
		return nil, ErrInvalidSignature
	}

	if s.authMaxAge > 0 {
		age := s.now().Sub(time.Unix(data.AuthDate, 0))
		if age > s.authMaxAge || age < -maxAuthDateSkew {
			metrics.TelegramLogins.WithLabelValues("expired").Inc()
			return nil, ErrAuthExpired
		}
	}

	user, created, err := s.findOrCreateUser(ctx, data)
	if err != nil {
		return nil, err
	}

	metrics.TelegramLogins.WithLabelValues("ok").Inc()
	logger.WithFields(logger.Fields{
		"user_id":     user.ID,
		"telegram_id": user.TelegramID,
		"created":     created,
	}).Info("telegram login")

	return user, nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, data utils.TelegramAuthData) (*models.User, bool, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("telegram_id = ?", data.ID).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("looking up telegram user: %w", err)
	}

	user = models.User{
		TelegramID:  data.ID,
		Username:    utils.SanitizeString(data.Username),
		DisplayName: strings.TrimSpace(data.FirstName + " " + data.LastName),
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
	if res.Error != nil {
		return nil, false, fmt.Errorf("creating telegram user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// a concurrent login for the same telegram id won the insert
		if err := db.Where("telegram_id = ?", data.ID).First(&user).Error; err != nil {
			return nil, false, fmt.Errorf("re-reading telegram user: %w", err)
		}
		return &user, false, nil
	}

	return &user, true, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	if user, ok := s.userCache.Get(userID); ok {
		return user, nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	s.userCache.Add(userID, &user)
	return &user, nil
}

// Establish opens a new session for user and returns the signed cookie value.
func (s *AuthService) Establish(ctx context.Context, user *models.User) (*SessionTicket, error) {
	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	token, err := utils.GenerateSessionToken(session.ID, user.ID, user.Username, session.ExpiresAt, s.sessionSecret)
	if err != nil {
		return nil, fmt.Errorf("signing session: %w", err)
	}

	return &SessionTicket{SessionID: session.ID, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate resolves a cookie value to its user. Every successful call
// slides the session expiry forward and returns the re-signed cookie value.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *SessionTicket, error) {
	if token == "" {
		return nil, nil, ErrUnauthenticated
	}

	claims, err := utils.ValidateSessionToken(token, s.sessionSecret)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	db := s.db.WithContext(ctx)

	var session models.Session
	if err := db.Where("id = ?", claims.ID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSessionRevoked
		}
		return nil, nil, fmt.Errorf("looking up session: %w", err)
	}

	now := s.now()
	if !session.IsActive(now) || session.UserID != claims.UserID {
		return nil, nil, ErrSessionRevoked
	}

	user, err := s.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	expiresAt := now.Add(s.sessionTTL)
	if err := db.Model(&models.Session{}).Where("id = ? AND revoked_at IS NULL", session.ID).Update("expires_at", expiresAt).Error; err != nil {
		return nil, nil, fmt.Errorf("extending session: %w", err)
	}

	refreshed, err := utils.GenerateSessionToken(session.ID, user.ID, user.Username, expiresAt, s.sessionSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("signing session: %w", err)
	}

	return user, &SessionTicket{SessionID: session.ID, Token: refreshed, ExpiresAt: expiresAt}, nil
}

// Terminate revokes the session behind token. Unknown or malformed tokens
// are ignored, so logging out twice is harmless.
func (s *AuthService) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := utils.ValidateSessionToken(token, s.sessionSecret)
	if err != nil {
		return nil
	}

	now := s.now()
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", claims.ID).
		Update("revoked_at", &now).Error
}

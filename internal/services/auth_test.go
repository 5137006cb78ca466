package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/princeprakhar/reputation-backend/internal/models"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedAuthData(id int64, username string) utils.TelegramAuthData {
	data := utils.TelegramAuthData{
		ID:        id,
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		AuthDate:  time.Now().Unix(),
	}
	data.Hash = utils.TelegramHash(data, testBotToken)
	return data
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	svc, err := NewAuthService(setupTestDB(t), testConfig())
	require.NoError(t, err)
	return svc
}

func TestTelegramLoginCreatesUserOnce(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.TelegramLogin(ctx, signedAuthData(555, "ivan"))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "ivan", first.Username)
	assert.Equal(t, "Ivan Petrov", first.DisplayName)

	again := signedAuthData(555, "renamed")
	second, err := svc.TelegramLogin(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ivan", second.Username)

	assert.Equal(t, int64(1), countRows(t, svc.db, &models.User{}))
}

func TestTelegramLoginDisplayNameTrimmed(t *testing.T) {
	svc := newTestAuthService(t)

	data := utils.TelegramAuthData{ID: 9, FirstName: "Solo", AuthDate: time.Now().Unix()}
	data.Hash = utils.TelegramHash(data, testBotToken)

	user, err := svc.TelegramLogin(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Solo", user.DisplayName)
}

func TestTelegramLoginConcurrentFirstLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]uint, 4)
	errs := make([]error, 4)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.TelegramLogin(ctx, signedAuthData(777, "dup"))
			errs[i] = err
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(1), countRows(t, svc.db, &models.User{}))
}

func TestTelegramLoginRejectsBadSignature(t *testing.T) {
	svc := newTestAuthService(t)

	data := signedAuthData(555, "ivan")
	data.Username = "mallory"

	_, err := svc.TelegramLogin(context.Background(), data)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, int64(0), countRows(t, svc.db, &models.User{}))
}

func TestTelegramLoginRequiresBotToken(t *testing.T) {
	cfg := testConfig()
	cfg.TelegramBotToken = ""
	svc, err := NewAuthService(setupTestDB(t), cfg)
	require.NoError(t, err)

	_, err = svc.TelegramLogin(context.Background(), signedAuthData(555, "ivan"))
	assert.ErrorIs(t, err, ErrBotTokenMissing)
}

func TestTelegramLoginMaxAge(t *testing.T) {
	cfg := testConfig()
	cfg.TelegramAuthMaxAge = time.Hour
	svc, err := NewAuthService(setupTestDB(t), cfg)
	require.NoError(t, err)

	stale := utils.TelegramAuthData{ID: 1, Username: "old", AuthDate: time.Now().Add(-2 * time.Hour).Unix()}
	stale.Hash = utils.TelegramHash(stale, testBotToken)
	_, err = svc.TelegramLogin(context.Background(), stale)
	assert.ErrorIs(t, err, ErrAuthExpired)

	_, err = svc.TelegramLogin(context.Background(), signedAuthData(1, "fresh"))
	assert.NoError(t, err)
}

func TestTelegramLoginRejectsFutureAuthDate(t *testing.T) {
	cfg := testConfig()
	cfg.TelegramAuthMaxAge = time.Hour
	svc, err := NewAuthService(setupTestDB(t), cfg)
	require.NoError(t, err)

	future := utils.TelegramAuthData{ID: 1, Username: "ahead", AuthDate: time.Now().Add(24 * time.Hour).Unix()}
	future.Hash = utils.TelegramHash(future, testBotToken)
	_, err = svc.TelegramLogin(context.Background(), future)
	assert.ErrorIs(t, err, ErrAuthExpired)

	skewed := utils.TelegramAuthData{ID: 1, Username: "skewed", AuthDate: time.Now().Add(time.Minute).Unix()}
	skewed.Hash = utils.TelegramHash(skewed, testBotToken)
	_, err = svc.TelegramLogin(context.Background(), skewed)
	assert.NoError(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.TelegramLogin(ctx, signedAuthData(555, "ivan"))
	require.NoError(t, err)

	ticket, err := svc.Establish(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.Token)

	current, refreshed, err := svc.Authenticate(ctx, ticket.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, ticket.SessionID, refreshed.SessionID)
	assert.False(t, refreshed.ExpiresAt.Before(ticket.ExpiresAt))

	require.NoError(t, svc.Terminate(ctx, ticket.Token))

	_, _, err = svc.Authenticate(ctx, ticket.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, _, err = svc.Authenticate(ctx, refreshed.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	// logging out twice is harmless
	assert.NoError(t, svc.Terminate(ctx, ticket.Token))
}

func TestAuthenticateSlidesExpiry(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	clock := time.Now()
	svc.now = func() time.Time { return clock }

	user, err := svc.TelegramLogin(ctx, signedAuthData(555, "ivan"))
	require.NoError(t, err)
	ticket, err := svc.Establish(ctx, user)
	require.NoError(t, err)

	// 45 minutes in, still inside the 1h window; the window restarts
	clock = clock.Add(45 * time.Minute)
	_, refreshed, err := svc.Authenticate(ctx, ticket.Token)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.Add(time.Hour), refreshed.ExpiresAt, time.Second)

	// 45 more minutes: past the original expiry, but inside the slid one
	clock = clock.Add(45 * time.Minute)
	var session models.Session
	require.NoError(t, svc.db.First(&session, "id = ?", ticket.SessionID).Error)
	assert.True(t, session.IsActive(clock))

	// two hours of inactivity ends it
	clock = clock.Add(2 * time.Hour)
	require.NoError(t, svc.db.First(&session, "id = ?", ticket.SessionID).Error)
	assert.False(t, session.IsActive(clock))
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	forged, err := utils.GenerateSessionToken("missing", 1, "x", time.Now().Add(time.Hour), "test-session-secret")
	require.NoError(t, err)
	_, _, err = svc.Authenticate(context.Background(), forged)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestGetUserByIDUsesCache(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user := createUser(t, svc.db, 42, "cached")

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Username)
	assert.True(t, svc.userCache.Contains(user.ID))

	_, err = svc.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

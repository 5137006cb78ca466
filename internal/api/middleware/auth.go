package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reputation-backend/internal/services"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

// AuthMiddleware rejects requests without a live session cookie. Accepted
// requests get the cookie re-issued with a pushed-out expiry.
func AuthMiddleware(authService *services.AuthService, cookie utils.SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Read(c)
		if token == "" {
			utils.SendUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		user, ticket, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if isAuthFailure(err) {
				cookie.Clear(c)
				utils.SendUnauthorized(c, "Invalid session")
				c.Abort()
				return
			}
			logger.Error("session lookup failed: ", err)
			utils.SendInternalError(c, "Failed to check session")
			c.Abort()
			return
		}

		cookie.Set(c, ticket.Token, ticket.ExpiresAt)
		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func isAuthFailure(err error) bool {
	return errors.Is(err, services.ErrUnauthenticated) ||
		errors.Is(err, services.ErrSessionRevoked) ||
		errors.Is(err, services.ErrUserNotFound)
}

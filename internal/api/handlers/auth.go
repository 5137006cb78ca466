package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reputation-backend/internal/api/middleware"
	"github.com/princeprakhar/reputation-backend/internal/models"
	"github.com/princeprakhar/reputation-backend/internal/services"
	"github.com/princeprakhar/reputation-backend/internal/types"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
)

type AuthHandler struct {
	authService *services.AuthService
	cookie      utils.SessionCookie
}

func NewAuthHandler(authService *services.AuthService, cookie utils.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	var req utils.TelegramAuthData
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data", err)
		return
	}

	user, err := h.authService.TelegramLogin(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBotTokenMissing):
			logger.Error("telegram login attempted without TELEGRAM_BOT_TOKEN")
			utils.SendError(c, http.StatusInternalServerError, "Telegram bot token is not configured", err)
		case errors.Is(err, services.ErrInvalidSignature), errors.Is(err, services.ErrAuthExpired):
			utils.SendUnauthorized(c, err.Error())
		default:
			logger.Error("telegram login failed: ", err)
			utils.SendInternalError(c, "Login failed")
		}
		return
	}

	ticket, err := h.authService.Establish(c.Request.Context(), user)
	if err != nil {
		logger.Error("failed to establish session: ", err)
		utils.SendInternalError(c, "Login failed")
		return
	}

	h.cookie.Set(c, ticket.Token, ticket.ExpiresAt)
	utils.SendOK(c, types.NewUserResponse(user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Terminate(c.Request.Context(), h.cookie.Read(c)); err != nil {
		logger.Error("failed to revoke session: ", err)
	}

	h.cookie.Clear(c)
	utils.SendEmptyOK(c)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := c.MustGet(middleware.UserKey).(*models.User)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	utils.SendOK(c, types.NewUserResponse(user))
}

package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reputation-backend/internal/services"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Search handles GET /accounts/search?handle=...&platform=...
func (h *AccountHandler) Search(c *gin.Context) {
	platform, err := services.ParsePlatform(c.DefaultQuery("platform", "Telegram"))
	if err != nil {
		utils.SendValidationError(c, "Invalid platform", err)
		return
	}

	details, err := h.accountService.Search(c.Request.Context(), platform, c.Query("handle"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			utils.SendNotFound(c, "Account not found")
		case errors.Is(err, services.ErrInvalidHandle), errors.Is(err, services.ErrInvalidPlatform):
			utils.SendValidationError(c, "Invalid search", err)
		default:
			logger.Error("account search failed: ", err)
			utils.SendInternalError(c, "Failed to search accounts")
		}
		return
	}

	utils.SendOK(c, details)
}

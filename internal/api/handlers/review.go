package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reputation-backend/internal/api/middleware"
	"github.com/princeprakhar/reputation-backend/internal/services"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetUint(middleware.UserIDKey)

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data", err)
		return
	}

	result, err := h.reviewService.RecordReview(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidImpact),
			errors.Is(err, services.ErrInvalidHandle),
			errors.Is(err, services.ErrInvalidPlatform):
			utils.SendValidationError(c, "Failed to create review", err)
		default:
			logger.Error("failed to record review: ", err)
			utils.SendInternalError(c, "Failed to create review")
		}
		return
	}

	utils.SendOK(c, result)
}

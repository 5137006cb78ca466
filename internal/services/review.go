package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/princeprakhar/reputation-backend/internal/metrics"
	"github.com/princeprakhar/reputation-backend/internal/models"
	"github.com/princeprakhar/reputation-backend/internal/types"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"github.com/princeprakhar/reputation-backend/pkg/logger"
	"gorm.io/gorm"
)

// maxRecordAttempts bounds retries of a review whose account insert lost a
// uniqueness race.
const maxRecordAttempts = 3

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type CreateReviewRequest struct {
	Platform   models.Platform `json:"platform"`
	Handle     string          `json:"handle" binding:"required"`
	ExternalID *string         `json:"externalId"`
	Text       string          `json:"text"`
	Impact     int             `json:"impact"`
}

// RecordReview appends a review for the (platform, handle) account, creating
// the account on first use, and applies RatingStep*impact to its rating. The
// account insert, the review insert and the rating update commit together.
func (s *ReviewService) RecordReview(ctx context.Context, authorID uint, req CreateReviewRequest) (*types.ReviewResult, error) {
	if !models.IsValidImpact(req.Impact) {
		return nil, ErrInvalidImpact
	}
	if !req.Platform.IsValid() {
		return nil, ErrInvalidPlatform
	}
	handle, err := NormalizeHandle(req.Handle)
	if err != nil {
		return nil, err
	}

	var externalID *string
	if req.ExternalID != nil {
		if trimmed := utils.SanitizeString(*req.ExternalID); trimmed != "" {
			externalID = &trimmed
		}
	}

	for attempt := 1; ; attempt++ {
		account, created, err := s.recordOnce(ctx, authorID, req.Platform, handle, externalID, utils.SanitizeString(req.Text), req.Impact)
		if err == nil {
			if created {
				metrics.AccountsCreated.Inc()
			}
			metrics.ReviewsRecorded.WithLabelValues(impactLabel(req.Impact)).Inc()
			logger.WithFields(logger.Fields{
				"account_id":    account.ID,
				"author_id":     authorID,
				"impact":        req.Impact,
				"rating":        account.Rating,
				"reviews_count": account.ReviewsCount,
				"created":       created,
			}).Info("review recorded")

			return &types.ReviewResult{
				ID:           account.ID,
				Rating:       account.Rating,
				ReviewsCount: account.ReviewsCount,
			}, nil
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < maxRecordAttempts {
			metrics.AccountCreateRetries.Inc()
			logger.WithFields(logger.Fields{
				"platform": req.Platform.String(),
				"handle":   handle,
				"attempt":  attempt,
			}).Warn("account creation raced, retrying review")
			continue
		}
		return nil, err
	}
}

func (s *ReviewService) recordOnce(ctx context.Context, authorID uint, platform models.Platform, handle string, externalID *string, text string, impact int) (*models.SocialAccount, bool, error) {
	var account *models.SocialAccount
	var created bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		account, created, err = getOrCreateAccount(tx, platform, handle, externalID)
		if err != nil {
			return err
		}

		review := models.Review{
			AuthorID:        authorID,
			SocialAccountID: account.ID,
			Text:            text,
			Impact:          impact,
			CreatedAt:       time.Now().UTC(),
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		res := tx.Model(&models.SocialAccount{}).Where("id = ?", account.ID).Updates(map[string]interface{}{
			"rating":        gorm.Expr("rating + ?", models.RatingStep*float64(impact)),
			"reviews_count": gorm.Expr("reviews_count + 1"),
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update rating: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("failed to update rating: account %d not updated", account.ID)
		}

		return tx.First(account, account.ID).Error
	})
	if err != nil {
		return nil, false, err
	}

	return account, created, nil
}

// TopReviews returns up to limit reviews of an account, newest first. Each
// call re-reads the table.
func (s *ReviewService) TopReviews(ctx context.Context, accountID uint, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = SearchReviewLimit
	}

	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("social_account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, nil
}

func (s *ReviewService) CountReviews(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).Where("social_account_id = ?", accountID).Count(&count).Error
	return count, err
}

func impactLabel(impact int) string {
	if impact > 0 {
		return "positive"
	}
	return "negative"
}

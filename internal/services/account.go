package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/princeprakhar/reputation-backend/internal/models"
	"github.com/princeprakhar/reputation-backend/internal/types"
	"github.com/princeprakhar/reputation-backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const SearchReviewLimit = 10

type AccountService struct {
	db      *gorm.DB
	reviews *ReviewService
}

func NewAccountService(db *gorm.DB, reviews *ReviewService) *AccountService {
	return &AccountService{db: db, reviews: reviews}
}

func NormalizeHandle(handle string) (string, error) {
	normalized, ok := utils.NormalizeHandle(handle)
	if !ok {
		return "", ErrInvalidHandle
	}
	return normalized, nil
}

func ParsePlatform(raw string) (models.Platform, error) {
	p, err := models.ParsePlatform(raw)
	if err != nil {
		return 0, ErrInvalidPlatform
	}
	return p, nil
}

// FindByHandle looks up an account by exact (platform, normalized handle).
// It never creates anything.
func (s *AccountService) FindByHandle(ctx context.Context, platform models.Platform, handle string) (*models.SocialAccount, error) {
	if !platform.IsValid() {
		return nil, ErrInvalidPlatform
	}
	normalized, err := NormalizeHandle(handle)
	if err != nil {
		return nil, err
	}

	account, err := findAccount(s.db.WithContext(ctx), platform, normalized)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Search returns the account with its newest reviews.
func (s *AccountService) Search(ctx context.Context, platform models.Platform, handle string) (*types.AccountDetails, error) {
	account, err := s.FindByHandle(ctx, platform, handle)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.TopReviews(ctx, account.ID, SearchReviewLimit)
	if err != nil {
		return nil, err
	}

	views := make([]types.ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, types.NewReviewView(&reviews[i]))
	}

	return &types.AccountDetails{
		ID:           account.ID,
		Platform:     account.Platform,
		Handle:       account.Handle,
		ExternalID:   account.ExternalID,
		Rating:       account.Rating,
		ReviewsCount: account.ReviewsCount,
		Reviews:      views,
	}, nil
}

func findAccount(tx *gorm.DB, platform models.Platform, handle string) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := tx.Where("platform = ? AND handle = ?", platform, handle).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	return &account, nil
}

// getOrCreateAccount must run inside the review transaction. A concurrent
// creator that commits first makes our insert a no-op, in which case the row
// is read back instead.
func getOrCreateAccount(tx *gorm.DB, platform models.Platform, handle string, externalID *string) (*models.SocialAccount, bool, error) {
	account, err := findAccount(tx, platform, handle)
	if err != nil {
		return nil, false, err
	}
	if account != nil {
		return account, false, nil
	}

	account = &models.SocialAccount{
		Platform:     platform,
		Handle:       handle,
		ExternalID:   externalID,
		Rating:       models.InitialRating,
		ReviewsCount: 0,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(account)
	if res.Error != nil {
		return nil, false, fmt.Errorf("creating account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		existing, err := findAccount(tx, platform, handle)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("account %s on %s vanished after conflict", handle, platform)
		}
		return existing, false, nil
	}

	return account, true, nil
}

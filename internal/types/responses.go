// types/responses.go
package types

import (
	"time"

	"github.com/princeprakhar/reputation-backend/internal/models"
)

type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

type ReviewAuthor struct {
	AuthorID uint `json:"authorId"`
}

type ReviewView struct {
	ID        uint         `json:"id"`
	Text      string       `json:"text"`
	Impact    int          `json:"impact"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    ReviewAuthor `json:"author"`
}

func NewReviewView(r *models.Review) ReviewView {
	return ReviewView{
		ID:        r.ID,
		Text:      r.Text,
		Impact:    r.Impact,
		CreatedAt: r.CreatedAt.UTC(),
		Author:    ReviewAuthor{AuthorID: r.AuthorID},
	}
}

// AccountDetails is the search result: the account plus its newest reviews.
type AccountDetails struct {
	ID           uint            `json:"id"`
	Platform     models.Platform `json:"platform"`
	Handle       string          `json:"handle"`
	ExternalID   *string         `json:"externalId"`
	Rating       float64         `json:"rating"`
	ReviewsCount int             `json:"reviewsCount"`
	Reviews      []ReviewView    `json:"reviews"`
}

// ReviewResult reports the account state right after a review was applied.
type ReviewResult struct {
	ID           uint    `json:"id"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviewsCount"`
}

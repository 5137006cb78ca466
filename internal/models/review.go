package models

import (
	"time"
)

// Review rows are append-only. Nothing in the service updates or deletes them.
type Review struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	AuthorID        uint      `json:"author_id" gorm:"not null;index"`
	SocialAccountID uint      `json:"social_account_id" gorm:"not null;index:idx_reviews_account_created,priority:1"`
	Text            string    `json:"text" gorm:"type:text"`
	Impact          int       `json:"impact" gorm:"not null;check:impact = 1 OR impact = -1"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;index:idx_reviews_account_created,priority:2"`

	// Relations
	Author        User          `json:"-" gorm:"foreignKey:AuthorID"`
	SocialAccount SocialAccount `json:"-" gorm:"foreignKey:SocialAccountID"`
}

func IsValidImpact(impact int) bool {
	return impact == 1 || impact == -1
}

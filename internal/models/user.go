package models

import (
	"time"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TelegramID  int64     `json:"-" gorm:"uniqueIndex;not null"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Reviews  []Review  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	Sessions []Session `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Session is the server-side half of a login cookie. The cookie only carries
// a signed reference to this row, so revoking the row kills the cookie.
type Session struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	UserID    uint       `json:"user_id" gorm:"not null;index"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	RevokedAt *time.Time `json:"revoked_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

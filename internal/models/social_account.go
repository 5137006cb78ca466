// models/social_account.go
package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

type Platform int

const (
	PlatformTelegram  Platform = 0
	PlatformInstagram Platform = 1
	PlatformTikTok    Platform = 2
	PlatformYouTube   Platform = 3
	PlatformOther     Platform = 99
)

var ErrUnknownPlatform = errors.New("unknown platform")

var platformNames = map[Platform]string{
	PlatformTelegram:  "Telegram",
	PlatformInstagram: "Instagram",
	PlatformTikTok:    "TikTok",
	PlatformYouTube:   "YouTube",
	PlatformOther:     "Other",
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return "Platform(" + strconv.Itoa(int(p)) + ")"
}

func (p Platform) IsValid() bool {
	_, ok := platformNames[p]
	return ok
}

// ParsePlatform accepts either the enum name (case-insensitive) or its
// numeric value.
func ParsePlatform(raw string) (Platform, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		p := Platform(n)
		if !p.IsValid() {
			return 0, ErrUnknownPlatform
		}
		return p, nil
	}
	for p, name := range platformNames {
		if strings.EqualFold(name, raw) {
			return p, nil
		}
	}
	return 0, ErrUnknownPlatform
}

func (p *Platform) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParsePlatform(name)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrUnknownPlatform
	}
	if !Platform(n).IsValid() {
		return ErrUnknownPlatform
	}
	*p = Platform(n)
	return nil
}

const (
	InitialRating = 1000.0
	RatingStep    = 25.0
)

type SocialAccount struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Platform     Platform  `json:"platform" gorm:"not null;uniqueIndex:idx_platform_handle"`
	Handle       string    `json:"handle" gorm:"not null;size:255;uniqueIndex:idx_platform_handle"`
	ExternalID   *string   `json:"externalId" gorm:"size:255"`
	Rating       float64   `json:"rating" gorm:"not null;default:1000"`
	ReviewsCount int       `json:"reviewsCount" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	Reviews []Review `json:"-" gorm:"foreignKey:SocialAccountID;constraint:OnDelete:CASCADE"`
}

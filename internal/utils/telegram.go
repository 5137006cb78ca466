package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// TelegramAuthData is the payload produced by the Telegram Login Widget.
// See https://core.telegram.org/widgets/login#checking-authorization.
type TelegramAuthData struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	AuthDate  int64  `json:"authDate"`
	Hash      string `json:"hash"`
}

// TelegramCheckString builds the data-check-string: every non-empty field
// except hash as key=value, sorted bytewise, joined by newlines.
func TelegramCheckString(data TelegramAuthData) string {
	fields := make([]string, 0, 6)
	add := func(key, value string) {
		if value != "" {
			fields = append(fields, key+"="+value)
		}
	}
	if data.AuthDate != 0 {
		add("auth_date", strconv.FormatInt(data.AuthDate, 10))
	}
	add("first_name", data.FirstName)
	if data.ID != 0 {
		add("id", strconv.FormatInt(data.ID, 10))
	}
	add("last_name", data.LastName)
	add("photo_url", data.PhotoURL)
	add("username", data.Username)

	sort.Strings(fields)
	return strings.Join(fields, "\n")
}

// TelegramHash returns the lowercase hex HMAC-SHA256 of the check string,
// keyed with SHA-256(botToken).
func TelegramHash(data TelegramAuthData, botToken string) string {
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(TelegramCheckString(data)))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyTelegramAuth(data TelegramAuthData, botToken string) bool {
	if botToken == "" || data.Hash == "" {
		return false
	}
	expected := TelegramHash(data, botToken)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(data.Hash)))
}

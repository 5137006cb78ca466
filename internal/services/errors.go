package services

import "errors"

// Authentication failures (401).
var (
	ErrInvalidSignature = errors.New("invalid telegram signature")
	ErrAuthExpired      = errors.New("telegram authorization is too old")
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrSessionRevoked   = errors.New("session is revoked or expired")
	ErrUserNotFound     = errors.New("user not found")
)

// ErrBotTokenMissing is a configuration error (500).
var ErrBotTokenMissing = errors.New("TELEGRAM_BOT_TOKEN is not configured")

// Validation failures (400).
var (
	ErrInvalidImpact   = errors.New("impact must be +1 or -1")
	ErrInvalidHandle   = errors.New("handle must not be empty")
	ErrInvalidPlatform = errors.New("unknown platform")
)

// ErrAccountNotFound is returned by lookups that miss (404).
var ErrAccountNotFound = errors.New("account not found")

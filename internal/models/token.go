package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedReason records why a refresh token stopped being usable. A revoked
// row is never mutated again; it stays behind as an audit fact.
type RevokedReason string

const (
	RevokedReasonLogout      RevokedReason = "logout"
	RevokedReasonRotated     RevokedReason = "rotated"
	RevokedReasonReuseDetect RevokedReason = "reuse-detected"
)

// RefreshToken represents a persisted refresh token row
type RefreshToken struct {
	ID            uuid.UUID      `json:"id"`
	AccountID     uuid.UUID      `json:"account_id"`
	Token         string         `json:"-"`
	ExpiresAt     time.Time      `json:"expires_at"`
	IsRevoked     bool           `json:"is_revoked"`
	RevokedReason *RevokedReason `json:"revoked_reason,omitempty"`
	RevokedAt     *time.Time     `json:"revoked_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TokenPair carries a freshly issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

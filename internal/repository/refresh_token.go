package repository

import (
	"context"
	"time"
	"authguard/internal/models"

	"github.com/google/uuid"
)

// RefreshTokenRepository defines the interface for refresh token operations.
// Revoked rows are never mutated again and never deleted before their
// retention window; they are audit facts.
type RefreshTokenRepository interface {
	Repository
	Create(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.RefreshToken, error)

	// Rotate marks the row for token revoked with reason "rotated", but only
	// if it is not already revoked. It returns the owning account id on
	// success and ErrTokenRevoked when another caller won the rotation (or
	// the token was revoked earlier), ErrTokenNotFound when no row exists.
	// The conditional update is the single atomic step that makes each
	// refresh token single-use.
	Rotate(ctx context.Context, token string) (uuid.UUID, error)

	// Revoke marks a specific token revoked with the given reason.
	Revoke(ctx context.Context, token string, reason models.RevokedReason) error

	// RevokeAllForAccount marks every outstanding (non-revoked) token for the
	// account revoked. Returns the number of tokens revoked.
	RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, reason models.RevokedReason) (int, error)

	// DeleteExpired purges rows whose expiry passed before the cutoff.
	DeleteExpired(ctx context.Context, before time.Time) error
}

// Package subscription exposes the narrow lookup this core needs from the
// subscriptions collaborator: whether an account is on a paying tier.
package subscription

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Service answers tier lookups for accounts.
type Service interface {
	IsPaidTier(ctx context.Context, accountID uuid.UUID) (bool, error)
}

// Paying tiers. Anything else, or no subscription row at all, is free.
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierFamily  = "family"
)

type postgresService struct {
	db *sql.DB
}

// NewPostgresService creates a subscription lookup backed by the shared
// database.
func NewPostgresService(db *sql.DB) Service {
	return &postgresService{db: db}
}

func (s *postgresService) IsPaidTier(ctx context.Context, accountID uuid.UUID) (bool, error) {
	query := `
		SELECT tier, expires_at
		FROM subscriptions
		WHERE account_id = $1`

	var tier string
	var expiresAt *time.Time
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&tier, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if tier == TierFree {
		return false, nil
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return false, nil
	}
	return true, nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"
	"authguard/internal/models"
	"authguard/internal/repository"

	"github.com/google/uuid"
)

type refreshTokenRepository struct {
	repository.BaseRepository
}

// NewRefreshTokenRepository creates a new PostgreSQL refresh token repository
func NewRefreshTokenRepository(db *sql.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *refreshTokenRepository) Create(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (
			id, account_id, token, expires_at, is_revoked, created_at
		) VALUES (
			$1, $2, $3, $4, false, $5
		)`

	_, err := r.DB().ExecContext(ctx, query,
		uuid.New(),
		accountID,
		token,
		expiresAt,
		time.Now(),
	)
	return err
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{}
	query := `
		SELECT id, account_id, token, expires_at, is_revoked, revoked_reason, revoked_at, created_at
		FROM refresh_tokens
		WHERE token = $1`

	err := r.DB().QueryRowContext(ctx, query, token).Scan(
		&rt.ID,
		&rt.AccountID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.IsRevoked,
		&rt.RevokedReason,
		&rt.RevokedAt,
		&rt.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *refreshTokenRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.RefreshToken, error) {
	query := `
		SELECT id, account_id, token, expires_at, is_revoked, revoked_reason, revoked_at, created_at
		FROM refresh_tokens
		WHERE account_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB().QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []models.RefreshToken
	for rows.Next() {
		var rt models.RefreshToken
		err := rows.Scan(
			&rt.ID,
			&rt.AccountID,
			&rt.Token,
			&rt.ExpiresAt,
			&rt.IsRevoked,
			&rt.RevokedReason,
			&rt.RevokedAt,
			&rt.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, rt)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Rotate is the single-use gate: the WHERE clause only matches a live row,
// so of two concurrent calls with the same token exactly one sees a row and
// the other gets ErrTokenRevoked.
func (r *refreshTokenRepository) Rotate(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = true, revoked_reason = $2, revoked_at = $3
		WHERE token = $1 AND is_revoked = false
		RETURNING account_id`

	var accountID uuid.UUID
	err := r.DB().QueryRowContext(ctx, query, token, models.RevokedReasonRotated, time.Now()).Scan(&accountID)
	if err == sql.ErrNoRows {
		// Distinguish missing from already-revoked for the caller.
		var exists bool
		if checkErr := r.DB().QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE token = $1)", token,
		).Scan(&exists); checkErr != nil {
			return uuid.Nil, checkErr
		}
		if !exists {
			return uuid.Nil, repository.ErrTokenNotFound
		}
		return uuid.Nil, repository.ErrTokenRevoked
	}
	if err != nil {
		return uuid.Nil, err
	}
	return accountID, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string, reason models.RevokedReason) error {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = true, revoked_reason = $2, revoked_at = $3
		WHERE token = $1 AND is_revoked = false`

	result, err := r.DB().ExecContext(ctx, query, token, reason, time.Now())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, reason models.RevokedReason) (int, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = true, revoked_reason = $2, revoked_at = $3
		WHERE account_id = $1 AND is_revoked = false`

	result, err := r.DB().ExecContext(ctx, query, accountID, reason, time.Now())
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`
	_, err := r.DB().ExecContext(ctx, query, before)
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"time"
	"authguard/internal/models"
	"authguard/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type accountRepository struct {
	repository.BaseRepository
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const accountColumns = `
	id, email, password_hash, role, is_active,
	failed_login_attempts, locked_until,
	device_change_count, device_locked,
	last_login_at, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, role, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $6
		)
		RETURNING created_at, updated_at`

	now := time.Now()
	account.ID = uuid.New()

	err := r.DB().QueryRowContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.IsActive,
		now,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return repository.ErrEmailExists
	}
	return err
}

func (r *accountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.IsActive,
		&account.FailedLoginAttempts,
		&account.LockedUntil,
		&account.DeviceChangeCount,
		&account.DeviceLocked,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.DB().QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.DB().QueryRowContext(ctx, query, email))
}

// RegisterFailedAttempt performs the increment and the threshold check in
// one statement so concurrent failures against the same account each see a
// distinct post-increment value.
func (r *accountRepository) RegisterFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) (*repository.LoginFailure, error) {
	query := `
		UPDATE accounts
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN $3::timestamptz
		        ELSE locked_until
		    END,
		    updated_at = $4
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until`

	now := time.Now()
	failure := &repository.LoginFailure{}
	err := r.DB().QueryRowContext(ctx, query, id, maxAttempts, now.Add(lockFor), now).Scan(
		&failure.Attempts,
		&failure.LockedUntil,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return failure, nil
}

func (r *accountRepository) ResetLoginState(ctx context.Context, id uuid.UUID, loginAt time.Time) error {
	query := `
		UPDATE accounts
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    last_login_at = $2,
		    updated_at = $2
		WHERE id = $1`

	result, err := r.DB().ExecContext(ctx, query, id, loginAt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) IncrementDeviceChange(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE accounts
		SET device_change_count = device_change_count + 1,
		    updated_at = $2
		WHERE id = $1
		RETURNING device_change_count`

	var count int
	err := r.DB().QueryRowContext(ctx, query, id, time.Now()).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, repository.ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *accountRepository) SetDeviceLock(ctx context.Context, id uuid.UUID, locked bool) error {
	query := `
		UPDATE accounts
		SET device_locked = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.DB().ExecContext(ctx, query, id, locked, time.Now())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrAccountNotFound
	}
	return nil
}

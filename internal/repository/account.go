package repository

import (
	"context"
	"time"
	"authguard/internal/models"

	"github.com/google/uuid"
)

// LoginFailure is the post-increment state returned after recording a
// failed login attempt.
type LoginFailure struct {
	Attempts    int
	LockedUntil *time.Time
}

// AccountRepository defines the interface for account-related database
// operations. Lockout counters and device-change counters are mutated only
// through the atomic methods here, never read-modify-write in Go code.
type AccountRepository interface {
	Repository
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// RegisterFailedAttempt atomically increments failed_login_attempts and,
	// when the post-increment value reaches maxAttempts, sets locked_until in
	// the same statement. Concurrent bursts observe distinct post-increment
	// values, so the threshold cannot be collectively overshot.
	RegisterFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) (*LoginFailure, error)

	// ResetLoginState clears failed_login_attempts and locked_until and
	// stamps last_login_at in a single statement.
	ResetLoginState(ctx context.Context, id uuid.UUID, loginAt time.Time) error

	// IncrementDeviceChange atomically bumps the lifetime device change
	// counter and returns the post-increment value.
	IncrementDeviceChange(ctx context.Context, id uuid.UUID) (int, error)

	// SetDeviceLock flips the device-lock flag that gates all authenticated
	// access for the account.
	SetDeviceLock(ctx context.Context, id uuid.UUID, locked bool) error
}

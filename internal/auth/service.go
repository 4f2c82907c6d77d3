package auth

import (
	"context"
	"errors"
	"time"
	"authguard/internal/config"
	"authguard/internal/models"
	"authguard/internal/notification"
	"authguard/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is a structurally valid bcrypt hash compared against
// when the email is unknown, so the unknown-email path costs the same as a
// real mismatch and the response never reveals whether the email exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service verifies credentials and maintains the per-account lockout state
// machine: Active -> (maxAttempts consecutive failures) -> Locked(until) ->
// (lock elapses) -> Active.
type Service struct {
	config   *config.Config
	accounts repository.AccountRepository
	tokens   repository.RefreshTokenRepository
	notifier notification.Sender
}

// NewService creates a new authentication service
func NewService(cfg *config.Config, accounts repository.AccountRepository, tokens repository.RefreshTokenRepository, notifier notification.Sender) *Service {
	return &Service{
		config:   cfg,
		accounts: accounts,
		tokens:   tokens,
		notifier: notifier,
	}
}

// HashPassword hashes a password using bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Register creates a new account with the default role.
func (s *Service) Register(ctx context.Context, email, password string) (*models.Account, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate verifies email/password and returns the account on success.
//
// The order of checks is deliberate: an active lock wins before the
// password is touched (a correct password must not bypass a lock), and a
// failed comparison feeds the atomic increment-and-lock in the store so a
// concurrent burst cannot slip past the threshold.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	now := time.Now()

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Burn a comparison anyway to keep timing equivalent.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if account.Locked(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		failure, recordErr := s.accounts.RegisterFailedAttempt(ctx,
			account.ID,
			s.config.Auth.MaxLoginAttempts,
			s.config.Auth.LockoutDuration,
		)
		if recordErr != nil {
			return nil, recordErr
		}
		if failure.LockedUntil != nil && failure.LockedUntil.After(now) {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.accounts.ResetLoginState(ctx, account.ID, now); err != nil {
		return nil, err
	}
	account.FailedLoginAttempts = 0
	account.LockedUntil = nil
	account.LastLoginAt = &now

	return account, nil
}

package auth_test

import (
	"context"
	"testing"
	"time"
	"authguard/internal/auth"
	"authguard/internal/config"
	"authguard/internal/models"
	"authguard/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*auth.Service, *testutil.FakeAccountRepository, *config.Config) {
	t.Helper()
	cfg := testutil.TestConfig()
	accounts := testutil.NewFakeAccountRepository()
	tokens := testutil.NewFakeRefreshTokenRepository()
	return auth.NewService(cfg, accounts, tokens, testutil.NewFakeNotifier()), accounts, cfg
}

func registerAccount(t *testing.T, svc *auth.Service, email, password string) *models.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), email, password)
	require.NoError(t, err)
	return account
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAccount(t, svc, "bob@example.com", "correct horse battery")

	account, err := svc.Authenticate(context.Background(), "bob@example.com", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", account.Email)
	require.NotNil(t, account.LastLoginAt)
	require.Zero(t, account.FailedLoginAttempts)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAccount(t, svc, "bob@example.com", "correct horse battery")

	_, err := svc.Authenticate(context.Background(), "bob@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticateLocksAfterMaxAttempts(t *testing.T) {
	svc, accounts, cfg := newTestService(t)
	created := registerAccount(t, svc, "bob@example.com", "correct horse battery")

	for i := 0; i < cfg.Auth.MaxLoginAttempts-1; i++ {
		_, err := svc.Authenticate(context.Background(), "bob@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	// The attempt that reaches the threshold reports the lock.
	_, err := svc.Authenticate(context.Background(), "bob@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrAccountLocked)

	stored, err := accounts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, cfg.Auth.MaxLoginAttempts, stored.FailedLoginAttempts)
	require.NotNil(t, stored.LockedUntil)

	// The correct password does not bypass an active lock.
	_, err = svc.Authenticate(context.Background(), "bob@example.com", "correct horse battery")
	require.ErrorIs(t, err, auth.ErrAccountLocked)
}

func TestAuthenticateResetsCounterOnSuccess(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	created := registerAccount(t, svc, "bob@example.com", "correct horse battery")

	for i := 0; i < 3; i++ {
		_, err := svc.Authenticate(context.Background(), "bob@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	_, err := svc.Authenticate(context.Background(), "bob@example.com", "correct horse battery")
	require.NoError(t, err)

	stored, err := accounts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Zero(t, stored.FailedLoginAttempts)
	require.Nil(t, stored.LockedUntil)

	// The streak starts over; a single failure afterwards does not lock.
	_, err = svc.Authenticate(context.Background(), "bob@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticateExpiredLock(t *testing.T) {
	svc, accounts, cfg := newTestService(t)
	created := registerAccount(t, svc, "bob@example.com", "correct horse battery")

	for i := 0; i < cfg.Auth.MaxLoginAttempts; i++ {
		_, _ = svc.Authenticate(context.Background(), "bob@example.com", "wrong")
	}

	// Rewind the lock expiry as if the lockout window passed.
	stored, err := accounts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LockedUntil)
	require.NoError(t, accounts.OverrideLockedUntil(created.ID, testutil.Time(time.Now().Add(-time.Minute))))

	account, err := svc.Authenticate(context.Background(), "bob@example.com", "correct horse battery")
	require.NoError(t, err)
	require.Zero(t, account.FailedLoginAttempts)
	require.Nil(t, account.LockedUntil)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	created := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	require.NoError(t, accounts.OverrideActive(created.ID, false))

	_, err := svc.Authenticate(context.Background(), "bob@example.com", "correct horse battery")
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAccount(t, svc, "bob@example.com", "correct horse battery")

	_, err := svc.Register(context.Background(), "bob@example.com", "another password")
	require.Error(t, err)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	created := registerAccount(t, svc, "bob@example.com", "correct horse battery")

	stored, err := accounts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", stored.PasswordHash)
	require.Equal(t, models.RoleStudent, stored.Role)
	require.True(t, stored.IsActive)
}

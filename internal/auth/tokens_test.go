package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"authguard/internal/auth"
	"authguard/internal/models"
	"authguard/internal/notification"
	"authguard/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func issuePair(t *testing.T, svc *auth.Service, account *models.Account) *models.TokenPair {
	t.Helper()
	pair, err := svc.IssueTokenPair(context.Background(), account)
	require.NoError(t, err)
	return pair
}

func TestIssueAndValidateAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, account.ID.String(), claims.Subject)
	require.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateAccessTokenTampered(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	tampered := pair.AccessToken[:len(pair.AccessToken)-4] + "XXXX"
	_, err := svc.ValidateAccessToken(tampered)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	svc, _, cfg := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")

	expired := auth.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-30 * time.Minute)),
		},
		Role: account.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	_, err := svc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	claims, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	require.Equal(t, account.ID.String(), claims.Subject)
}

func TestRefreshTokenSingleUse(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	// Presenting the already-rotated token is a reuse event and must kill
	// the whole family, including the freshly issued token.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)

	_, err = svc.Refresh(context.Background(), next.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)
}

func TestRefreshReuseNotifiesOwner(t *testing.T) {
	cfg := testutil.TestConfig()
	accounts := testutil.NewFakeAccountRepository()
	tokens := testutil.NewFakeRefreshTokenRepository()
	notifier := testutil.NewFakeNotifier()
	svc := auth.NewService(cfg, accounts, tokens, notifier)

	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	_, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)

	require.Equal(t, []notification.EventKind{notification.EventTokenReuse}, notifier.Sent)
}

func TestRefreshReuseNotificationFailureIsSilent(t *testing.T) {
	cfg := testutil.TestConfig()
	accounts := testutil.NewFakeAccountRepository()
	tokens := testutil.NewFakeRefreshTokenRepository()
	notifier := testutil.NewFakeNotifier()
	notifier.Err = errors.New("smtp down")
	svc := auth.NewService(cfg, accounts, tokens, notifier)

	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	_, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	// The delivery failure never changes the auth outcome.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)
	require.Empty(t, notifier.Sent)
}

func TestRefreshDisabledAccount(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	require.NoError(t, accounts.OverrideActive(account.ID, false))

	_, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, account)

	require.NoError(t, svc.Revoke(context.Background(), account.ID, pair.RefreshToken))
	require.NoError(t, svc.Revoke(context.Background(), account.ID, pair.RefreshToken))

	// A logged-out token cannot be rotated, and since logout already spent
	// it the attempt counts as reuse.
	_, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)
}

func TestRevokeRejectsForeignToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	alice := registerAccount(t, svc, "alice@example.com", "correct horse battery")
	bob := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	pair := issuePair(t, svc, alice)

	err := svc.Revoke(context.Background(), bob.ID, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestRevokeAllForAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	account := registerAccount(t, svc, "bob@example.com", "correct horse battery")
	first := issuePair(t, svc, account)
	second := issuePair(t, svc, account)

	n, err := svc.RevokeAll(context.Background(), account.ID, models.RevokedReasonReuseDetect)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)
	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenReused)
}

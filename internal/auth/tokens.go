package auth

import (
	"context"
	"errors"
	"time"
	"authguard/internal/models"
	"authguard/internal/notification"
	"authguard/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenType = "refresh"

// AccessClaims is the payload of a stateless access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// refreshClaims marks the token as a refresh credential; the same signed
// string is also persisted server-side so it can be revoked.
type refreshClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// IssueTokenPair generates an access/refresh pair for the account and
// persists the refresh token row.
func (s *Service) IssueTokenPair(ctx context.Context, account *models.Account) (*models.TokenPair, error) {
	now := time.Now()

	access := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Auth.AccessTokenDuration)),
		},
		Role: account.Role,
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshExpiry := now.Add(s.config.Auth.RefreshTokenDuration)
	refresh := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
		},
		TokenType: refreshTokenType,
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, account.ID, refreshToken, refreshExpiry); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateAccessToken verifies signature and expiry of a stateless access
// token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Refresh rotates a refresh token: exactly one concurrent caller wins the
// conditional revoke and receives a fresh pair. Presenting a token whose
// row is missing or already revoked is a reuse event; the whole token
// family for the account is revoked and ErrTokenReused returned.
func (s *Service) Refresh(ctx context.Context, presented string) (*models.TokenPair, error) {
	claims := &refreshClaims{}
	token, err := jwt.ParseWithClaims(presented, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.TokenType != refreshTokenType {
		return nil, ErrTokenInvalid
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	accountID, err := s.tokens.Rotate(ctx, presented)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) || errors.Is(err, repository.ErrTokenRevoked) {
			// The token was valid by signature but its server-side row is
			// gone or already spent: someone used it twice. Invalidate the
			// family and force re-authentication.
			if _, revokeErr := s.tokens.RevokeAllForAccount(ctx, subjectID, models.RevokedReasonReuseDetect); revokeErr != nil {
				return nil, revokeErr
			}
			notification.LogOnFailure(s.notifier, ctx, subjectID, notification.EventTokenReuse)
			return nil, ErrTokenReused
		}
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.IssueTokenPair(ctx, account)
}

// Revoke marks a specific refresh token revoked on logout. The token must
// belong to the calling account.
func (s *Service) Revoke(ctx context.Context, accountID uuid.UUID, tokenString string) error {
	row, err := s.tokens.GetByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	if row.AccountID != accountID {
		return ErrTokenInvalid
	}
	if row.IsRevoked {
		// Logout is idempotent; a second call is not a reuse signal.
		return nil
	}
	return s.tokens.Revoke(ctx, tokenString, models.RevokedReasonLogout)
}

// RevokeAll marks every outstanding refresh token for the account revoked.
// Used for reuse detection and for incident response, e.g. after a
// password reset.
func (s *Service) RevokeAll(ctx context.Context, accountID uuid.UUID, reason models.RevokedReason) (int, error) {
	return s.tokens.RevokeAllForAccount(ctx, accountID, reason)
}

func (s *Service) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrTokenInvalid
	}
	return []byte(s.config.Auth.JWTSecret), nil
}

package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password
	// identically; callers surface one generic message for both.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked indicates an active lockout window
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDisabled indicates the account has been deactivated
	ErrAccountDisabled = errors.New("account disabled")
	// ErrTokenInvalid indicates a malformed token or bad signature
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired indicates the token has expired
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenReused indicates an already-revoked refresh token was
	// presented again. Observing it means every outstanding refresh token
	// for the account has just been revoked.
	ErrTokenReused = errors.New("refresh token reuse detected")
)

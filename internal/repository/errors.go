package repository

import "errors"

var (
	// Common errors
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Account errors
	ErrEmailExists     = errors.New("email already exists")
	ErrAccountNotFound = errors.New("account not found")

	// Token errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenRevoked  = errors.New("token already revoked")

	// Device errors
	ErrDeviceNotFound      = errors.New("device not found")
	ErrChangeEventNotFound = errors.New("device change event not found")
)

// Package common defines shared constants and sentinel errors used across
// the Altron vault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors (empty or short secret, mismatched confirmation,
	// empty label or password). Recovered locally by re-prompting.
	ErrorValidation = errors.New("validation error")

	// Vault lifecycle errors.
	ErrorNoVault     = errors.New("folder has no master key file")
	ErrorVaultExists = errors.New("vault already exists in this folder")

	// Authentication and decryption errors.
	ErrorAuthentication = errors.New("incorrect master key")
	ErrorDecryption     = errors.New("wrong key or corrupted data")

	// Storage errors.
	ErrorPermission  = errors.New("folder access denied")
	ErrorPersistence = errors.New("failed to persist store")

	// ErrorAborted marks a user-canceled prompt. It is an outcome, not a
	// failure: callers swallow it silently.
	ErrorAborted = errors.New("aborted")

	// Session lifecycle errors.
	ErrorSessionExpired = errors.New("session expired")
	ErrInvalidToken     = errors.New("invalid token")
)

// Package usecase implements the business logic for the reset-password feature.
package usecase

import "errors"

var (
	// ErrInvalidToken is returned for a token with a bad signature or past expiry.
	// A token issued before a password change fails the same way, since the
	// signing secret is derived from the hash it was minted against.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserNotFound is returned when the target email matches no account.
	ErrUserNotFound = errors.New("user not found")
)

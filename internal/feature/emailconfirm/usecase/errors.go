// Package usecase implements the business logic for the email-confirmation feature.
package usecase

import "errors"

var (
	// ErrEmailAlreadyConfirmed is returned when the account's email is already confirmed.
	// Confirmation is terminal: there is no path back to the unconfirmed state.
	ErrEmailAlreadyConfirmed = errors.New("email already confirmed")

	// ErrInvalidToken is returned for a token with a bad signature or past expiry.
	// The two causes are collapsed so callers cannot tell which half failed.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserNotFound is returned when the token's email claim matches no account.
	ErrUserNotFound = errors.New("user not found")
)

// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the given ID or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when an email change collides with another account.
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role enumerates the authorization roles a user can hold.
// Email confirmation is tracked separately in EmailVerified, so roles stay
// orthogonal to the confirmation state.
type Role string

const (
	// RoleUser is the default role assigned at signup.
	RoleUser Role = "user"

	// RoleAdmin grants access to administrative endpoints and overrides
	// resource-ownership checks.
	RoleAdmin Role = "admin"
)

// User represents a registered user account.
// It carries the credential material and the confirmation/role state the
// account lifecycle operates on.
type User struct {
	// ID is the opaque unique identifier for the user, assigned at creation.
	ID string `gorm:"primaryKey;size:36"`

	// LastName is the user's family name.
	LastName string `gorm:"size:255;not null"`

	// FirstName is the user's given name.
	FirstName string `gorm:"size:255;not null"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This must never store the plaintext and is excluded from every
	// outward-facing representation.
	Password string `gorm:"size:255;not null"`

	// Role is the user's authorization role.
	Role Role `gorm:"size:16;not null;default:user"`

	// EmailVerified reports whether the user has confirmed their email
	// address. A fresh account always starts unverified.
	EmailVerified bool `gorm:"not null;default:false"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

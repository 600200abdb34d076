// Package api defines the JSON response types shared across transport handlers.
package api

import (
	"time"

	"datadvisor_backend/internal/feature/auth/domain/entity"
)

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a minimal success body for endpoints without a resource payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of a user account.
// The password hash never leaves the API.
type UserResponse struct {
	ID            string      `json:"id"`
	LastName      string      `json:"lastName"`
	FirstName     string      `json:"firstName"`
	Email         string      `json:"email"`
	EmailVerified bool        `json:"emailVerified"`
	Role          entity.Role `json:"role"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// NewUserResponse converts a user entity into its public representation.
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		LastName:      user.LastName,
		FirstName:     user.FirstName,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Role:          user.Role,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// NewUserResponses converts a slice of user entities.
func NewUserResponses(users []*entity.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, NewUserResponse(user))
	}
	return res
}

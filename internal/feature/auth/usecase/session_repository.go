package usecase

import (
	"context"

	"datadvisor_backend/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the session store.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform).
type SessionRepository interface {
	// Create persists a new session with a TTL matching its expiry.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its opaque ID.
	// It returns ErrSessionNotFound for unknown or expired sessions.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete destroys a session. Subsequent lookups of the same ID must fail.
	// It returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id string) error
}

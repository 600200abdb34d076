// Package session provides the Redis-backed session store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	"datadvisor_backend/internal/feature/auth/usecase"

	"github.com/redis/go-redis/v9"
)

// SessionRedis implements usecase.SessionRepository using Redis.
// Entries expire through the key TTL, so the store never has to reap
// sessions itself.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

// Compile-time check to ensure SessionRedis implements SessionRepository.
var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

// sessionKey returns the Redis key for a session.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Create persists a new session to Redis with a TTL matching its lifetime.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := session.ExpiresAt.Sub(session.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	return r.client.Set(ctx, r.sessionKey(session.ID), data, ttl).Err()
}

// FindByID retrieves a session by its opaque ID.
// Expired sessions vanish through the Redis TTL and surface as not found.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete destroys a session. Lookups of the same ID fail afterwards.
func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

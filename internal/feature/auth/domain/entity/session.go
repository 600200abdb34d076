package entity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// sessionIDBytes is the number of random bytes in a session ID.
// Encoded as hex this yields a 64-character opaque cookie value.
const sessionIDBytes = 32

// Session represents a server-side authentication session.
// The cookie sent to the client carries only the opaque ID; the user binding
// lives exclusively in the session store.
type Session struct {
	ID        string    // Opaque session ID (64-character hex string)
	UserID    string    // Associated user ID
	CreatedAt time.Time // Session creation time
	ExpiresAt time.Time // Session expiration time
}

// NewSession mints a session for the given user with a fixed time-to-live.
// The ID is generated from crypto/rand.
func NewSession(userID string, ttl time.Duration) (*Session, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	return &Session{
		ID:        hex.EncodeToString(buf),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

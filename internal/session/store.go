package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"entry-gate/internal/auth"
)

var ErrInvalidSession = errors.New("session: invalid session")

// Session is the record written after a dispatched login. It stores the
// resolved role so route guards never re-resolve.
type Session struct {
	SessionID   string    `json:"session_id"`
	SubjectID   string    `json:"subject_id"`
	Provider    string    `json:"provider"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        auth.Role `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"` // absolute expiry time
}

// Expired reports whether the session is past its absolute expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Get returns nil, nil for an unknown id.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}

// New builds a fresh session for a login outcome.
func New(outcome *auth.SessionOutcome, now time.Time, ttl time.Duration) (Session, error) {
	if outcome == nil || !outcome.Role.Valid() {
		return Session{}, ErrInvalidSession
	}

	id, err := GenerateID()
	if err != nil {
		return Session{}, err
	}

	return Session{
		SessionID:   id,
		SubjectID:   outcome.Identity.SubjectID,
		Provider:    outcome.Identity.Provider,
		Email:       outcome.Identity.Email,
		DisplayName: outcome.Identity.DisplayName,
		Role:        outcome.Role,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}, nil
}

// GenerateID returns 256 bits of randomness, URL-safe.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

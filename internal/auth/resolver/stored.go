package resolver

import (
	"context"
	"fmt"

	"entry-gate/internal/auth"
)

// RoleStore persists the role chosen at registration, keyed by the
// identity's provider and subject id.
type RoleStore interface {
	// Lookup returns the stored role and true, or false when none exists.
	Lookup(ctx context.Context, identity auth.Identity) (auth.Role, bool, error)
	// Assign stores role for identity, replacing any previous value.
	Assign(ctx context.Context, identity auth.Identity, role auth.Role) error
	// AssignIfAbsent stores role only when nothing is stored yet and
	// reports whether it wrote.
	AssignIfAbsent(ctx context.Context, identity auth.Identity, role auth.Role) (bool, error)
}

// Stored resolves roles from a RoleStore. An authoritative role still wins.
// Identities without a stored role go to fallback, or fail with
// auth.ErrUnassignedRole when fallback is nil.
type Stored struct {
	store    RoleStore
	fallback Resolver
}

func NewStored(store RoleStore, fallback Resolver) *Stored {
	return &Stored{store: store, fallback: fallback}
}

func (s *Stored) Resolve(
	ctx context.Context,
	identity auth.Identity,
	authoritative *auth.Role,
) (auth.Role, error) {

	if authoritative != nil {
		return *authoritative, nil
	}

	role, ok, err := s.store.Lookup(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("resolver: lookup role: %w", err)
	}
	if ok {
		return role, nil
	}

	if s.fallback != nil {
		return s.fallback.Resolve(ctx, identity, nil)
	}

	return "", auth.ErrUnassignedRole
}

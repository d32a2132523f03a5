package source

import (
	"context"
	"fmt"

	"entry-gate/internal/auth"
)

// Variant tags which identity-source design is in use. It is chosen once
// at configuration time.
type Variant string

const (
	// VariantApplication is a first-party service that verifies credentials
	// itself and is authoritative for roles.
	VariantApplication Variant = "application"
	// VariantDelegated is a federated identity provider that verifies the
	// user but knows nothing about roles.
	VariantDelegated Variant = "delegated"
)

// ParseVariant maps a configuration value onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantApplication, VariantDelegated:
		return Variant(s), nil
	}
	return "", fmt.Errorf("source: unknown identity source %q", s)
}

// Source is the single narrow interface the gate uses for both variants.
// Implementations return auth.Result on success and *auth.AuthError for
// rejections the user should see. They must not retry.
type Source interface {
	Variant() Variant

	Authenticate(
		ctx context.Context,
		creds auth.Credentials,
	) (auth.Result, error)

	Register(
		ctx context.Context,
		req auth.RegistrationRequest,
	) (auth.Result, error)
}

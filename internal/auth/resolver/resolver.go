package resolver

import (
	"context"
	"strings"

	"entry-gate/internal/auth"
)

// Resolver assigns exactly one role to a verified identity.
// It is the ONLY place where identity-to-role mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity auth.Identity,
		authoritative *auth.Role,
	) (auth.Role, error)
}

// inference order matters: the first matching marker wins.
var inference = []struct {
	marker string
	role   auth.Role
}{
	{"admin", auth.RoleAdmin},
	{"volunteer", auth.RoleVolunteer},
	{"recipient", auth.RoleRecipient},
}

// Resolve returns authoritative unchanged when present, otherwise it
// guesses a role from the email address. Donor is the fallback.
//
// The email guess has no authorization backing: anyone who can pick an
// address containing "admin" lands on the admin route. Prefer Stored.
func Resolve(identity auth.Identity, authoritative *auth.Role) auth.Role {
	if authoritative != nil {
		return *authoritative
	}
	return InferRole(identity.Email)
}

// InferRole applies the ordered substring match to an email address.
func InferRole(email string) auth.Role {
	email = strings.ToLower(email)
	for _, rule := range inference {
		if strings.Contains(email, rule.marker) {
			return rule.role
		}
	}
	return auth.RoleDonor
}

// Inference is the Resolver backed by the pure Resolve function.
type Inference struct{}

func (Inference) Resolve(
	_ context.Context,
	identity auth.Identity,
	authoritative *auth.Role,
) (auth.Role, error) {
	return Resolve(identity, authoritative), nil
}

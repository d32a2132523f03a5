package auth

import (
	"fmt"
	"strings"
)

// Role is the application-level permission class that decides where a
// user lands after login. The set is closed.
type Role string

const (
	RoleDonor     Role = "Donor"
	RoleRecipient Role = "Recipient"
	RoleVolunteer Role = "Volunteer"
	RoleAdmin     Role = "Admin"
)

var allRoles = []Role{RoleDonor, RoleRecipient, RoleVolunteer, RoleAdmin}

// Roles returns the four roles in declaration order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a user- or service-supplied role name onto the closed set.
// Matching ignores case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, known := range allRoles {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("auth: unknown role %q", s)
}

// RolePtr is a convenience for building Result values with an
// authoritative role.
func RolePtr(r Role) *Role {
	return &r
}

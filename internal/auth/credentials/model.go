package credentials

import "entry-gate/internal/auth"

// User is a first-party account. Role is stored at signup and is
// authoritative for every later login.
type User struct {
	ID    string
	Name  string
	Email string
	Role  auth.Role
}

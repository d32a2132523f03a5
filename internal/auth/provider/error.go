package provider

import "fmt"

// Error is a rejection reported by a provider. Code is the provider's own
// error code (e.g. "invalid_grant"); callers map it to a user message.
type Error struct {
	Provider    string
	Code        string
	Description string
	Err         error
}

func (e *Error) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Codes shared by providers that do not have a native equivalent.
const (
	CodeUserExists    = "user_exists"
	CodeInvalidUser   = "invalid_user"
	CodeMissingClaims = "missing_claims"
	CodeNoIDToken     = "no_id_token"
)

package auth

import "errors"

var (
	// ErrUnassignedRole is returned when an identity has no stored role and
	// the resolver is not allowed to guess one.
	ErrUnassignedRole = errors.New("auth: identity has no assigned role")

	// ErrSubmitPending is returned when the same form is submitted again
	// while the first call is still outstanding.
	ErrSubmitPending = errors.New("auth: submission already in progress")
)

// ValidationError is a local precondition failure. It never reaches an
// identity source.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a remote rejection: bad credentials, provider failure or a
// network problem. Message is safe to show to the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError wraps cause with a user-facing message.
func NewAuthError(message string, cause error) *AuthError {
	return &AuthError{Message: message, Err: cause}
}

package auth

import (
	"strings"
)

// MinPasswordLength is the registration password floor.
const MinPasswordLength = 6

// Credentials is what a form submits to an identity source. It is either
// PasswordCredentials or FederatedCredentials.
type Credentials interface {
	// Validate checks local preconditions before any remote call.
	Validate() error
	// Key identifies the submission for duplicate suppression.
	Key() string

	isCredentials()
}

// PasswordCredentials is the email/password pair from the Login form.
type PasswordCredentials struct {
	Email    string
	Password string
}

func (c PasswordCredentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required."}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required."}
	}
	return nil
}

func (c PasswordCredentials) Key() string {
	return "login:" + NormalizeEmail(c.Email)
}

func (PasswordCredentials) isCredentials() {}

// FederatedCredentials is a completed provider-selection: the callback
// received an authorization code for Provider. RequestedRole is set when
// the flow was started from the Signup form.
type FederatedCredentials struct {
	Provider      string
	Code          string
	CodeVerifier  string
	State         string
	RequestedRole *Role
}

func (c FederatedCredentials) Validate() error {
	if c.Provider == "" {
		return &ValidationError{Field: "provider", Message: "Sign-in provider is required."}
	}
	if c.Code == "" {
		return &ValidationError{Field: "code", Message: "Sign-in provider did not return an authorization code."}
	}
	if c.CodeVerifier == "" {
		return &ValidationError{Field: "code_verifier", Message: "Sign-in session expired, please try again."}
	}
	if c.RequestedRole != nil && !c.RequestedRole.Valid() {
		return &ValidationError{Field: "role", Message: "Please choose a valid role."}
	}
	return nil
}

func (c FederatedCredentials) Key() string {
	return "federated:" + c.Provider + ":" + c.State
}

func (FederatedCredentials) isCredentials() {}

// RegistrationRequest is the Signup form.
type RegistrationRequest struct {
	Name          string
	Email         string
	Password      string
	RequestedRole Role
}

func (r RegistrationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required."}
	}
	if strings.TrimSpace(r.Email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required."}
	}
	if len(r.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long."}
	}
	if !r.RequestedRole.Valid() {
		return &ValidationError{Field: "role", Message: "Please choose a valid role."}
	}
	return nil
}

func (r RegistrationRequest) Key() string {
	return "signup:" + NormalizeEmail(r.Email)
}

// NormalizeEmail trims and lower-cases an address for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

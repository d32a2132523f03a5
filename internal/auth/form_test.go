package auth

import (
	"errors"
	"testing"
)

func TestPasswordCredentialsValidate(t *testing.T) {
	tests := []struct {
		name      string
		creds     PasswordCredentials
		wantField string
	}{
		{"ok", PasswordCredentials{Email: "a@x.com", Password: "p"}, ""},
		{"missing email", PasswordCredentials{Email: "  ", Password: "p"}, "email"},
		{"missing password", PasswordCredentials{Email: "a@x.com"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestRegistrationPasswordLength(t *testing.T) {
	req := RegistrationRequest{
		Name:          "Bob",
		Email:         "bob@x.com",
		Password:      "abcde",
		RequestedRole: RoleRecipient,
	}

	var verr *ValidationError
	if err := req.Validate(); !errors.As(err, &verr) || verr.Field != "password" {
		t.Fatalf("5-char password should fail on password, got %v", err)
	}

	req.Password = "abcdef"
	if err := req.Validate(); err != nil {
		t.Fatalf("6-char password should pass, got %v", err)
	}
}

func TestRegistrationRejectsUnknownRole(t *testing.T) {
	req := RegistrationRequest{Name: "Bob", Email: "bob@x.com", Password: "abcdef", RequestedRole: "Owner"}

	var verr *ValidationError
	if err := req.Validate(); !errors.As(err, &verr) || verr.Field != "role" {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestFederatedCredentialsValidate(t *testing.T) {
	base := FederatedCredentials{Provider: "google", Code: "c", CodeVerifier: "v", State: "s"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noVerifier := base
	noVerifier.CodeVerifier = ""
	if err := noVerifier.Validate(); err == nil {
		t.Fatal("expected error without verifier")
	}

	badRole := base
	badRole.RequestedRole = RolePtr("Owner")
	if err := badRole.Validate(); err == nil {
		t.Fatal("expected error for out-of-set requested role")
	}
}

func TestKeysNormalizeEmail(t *testing.T) {
	a := PasswordCredentials{Email: " Admin@X.com ", Password: "x"}
	b := PasswordCredentials{Email: "admin@x.com", Password: "y"}
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}

	r := RegistrationRequest{Email: "admin@x.com"}
	if r.Key() == a.Key() {
		t.Fatal("signup and login keys must not collide")
	}
}

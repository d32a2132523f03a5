package appservice

import (
	"context"
	"errors"
	"testing"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/credentials"
	"entry-gate/internal/auth/source"
)

type fakeAccounts struct {
	users map[string]credentials.User
	pw    map[string]string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: map[string]credentials.User{}, pw: map[string]string{}}
}

func (f *fakeAccounts) Register(_ context.Context, req auth.RegistrationRequest) (credentials.User, error) {
	if _, ok := f.users[req.Email]; ok {
		return credentials.User{}, credentials.ErrAlreadyRegistered
	}
	u := credentials.User{ID: "u-1", Name: req.Name, Email: req.Email, Role: req.RequestedRole}
	f.users[req.Email] = u
	f.pw[req.Email] = req.Password
	return u, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, email, password string) (credentials.User, error) {
	u, ok := f.users[email]
	if !ok || f.pw[email] != password {
		return credentials.User{}, credentials.ErrInvalidCredentials
	}
	return u, nil
}

func TestLocalRoundTrip(t *testing.T) {
	local := NewLocal(newFakeAccounts())
	ctx := context.Background()

	if local.Variant() != source.VariantApplication {
		t.Fatalf("variant = %q", local.Variant())
	}

	if _, err := local.Register(ctx, auth.RegistrationRequest{
		Name: "Bob", Email: "bob@x.com", Password: "abcdef", RequestedRole: auth.RoleRecipient,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := local.Authenticate(ctx, auth.PasswordCredentials{Email: "bob@x.com", Password: "abcdef"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Role == nil || *res.Role != auth.RoleRecipient {
		t.Fatalf("role = %v", res.Role)
	}
	if res.Identity.Kind != auth.KindPassword || res.Identity.Provider != localProviderName {
		t.Fatalf("identity = %+v", res.Identity)
	}
}

func TestLocalErrorsBecomeAuthErrors(t *testing.T) {
	accounts := newFakeAccounts()
	local := NewLocal(accounts)
	ctx := context.Background()
	req := auth.RegistrationRequest{Name: "Bob", Email: "bob@x.com", Password: "abcdef", RequestedRole: auth.RoleDonor}
	_, _ = local.Register(ctx, req)

	var aerr *auth.AuthError

	_, err := local.Register(ctx, req)
	if !errors.As(err, &aerr) || aerr.Message != msgEmailExists {
		t.Fatalf("duplicate: %v", err)
	}

	_, err = local.Authenticate(ctx, auth.PasswordCredentials{Email: "bob@x.com", Password: "wrongpass"})
	if !errors.As(err, &aerr) || aerr.Message != msgInvalidCredentials {
		t.Fatalf("wrong password: %v", err)
	}
	if !errors.Is(err, credentials.ErrInvalidCredentials) {
		t.Fatal("AuthError should wrap the sentinel")
	}
}

package appservice

import (
	"context"
	"errors"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/credentials"
	"entry-gate/internal/auth/source"
)

const localProviderName = "app"

// Accounts is the first-party account store Local delegates to.
type Accounts interface {
	Register(ctx context.Context, req auth.RegistrationRequest) (credentials.User, error)
	Authenticate(ctx context.Context, email, password string) (credentials.User, error)
}

// Local is the application auth service running in-process on top of the
// credentials store. Roles it returns are authoritative.
type Local struct {
	accounts Accounts
}

func NewLocal(accounts Accounts) *Local {
	return &Local{accounts: accounts}
}

func (l *Local) Variant() source.Variant {
	return source.VariantApplication
}

func (l *Local) Authenticate(
	ctx context.Context,
	creds auth.Credentials,
) (auth.Result, error) {

	pw, ok := creds.(auth.PasswordCredentials)
	if !ok {
		return auth.Result{}, auth.NewAuthError(msgFederatedUnsupported, nil)
	}

	user, err := l.accounts.Authenticate(ctx, pw.Email, pw.Password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		return auth.Result{}, auth.NewAuthError(msgInvalidCredentials, err)
	}
	if err != nil {
		return auth.Result{}, err
	}

	return resultFor(user), nil
}

func (l *Local) Register(
	ctx context.Context,
	req auth.RegistrationRequest,
) (auth.Result, error) {

	user, err := l.accounts.Register(ctx, req)
	switch {
	case errors.Is(err, credentials.ErrAlreadyRegistered):
		return auth.Result{}, auth.NewAuthError(msgEmailExists, err)
	case errors.Is(err, credentials.ErrPasswordTooShort):
		return auth.Result{}, auth.NewAuthError(msgPasswordTooShort, err)
	case err != nil:
		return auth.Result{}, err
	}

	return resultFor(user), nil
}

func resultFor(user credentials.User) auth.Result {
	return auth.Result{
		Identity: auth.Identity{
			SubjectID:   user.ID,
			Email:       user.Email,
			DisplayName: user.Name,
			Kind:        auth.KindPassword,
			Provider:    localProviderName,
		},
		Role: auth.RolePtr(user.Role),
	}
}

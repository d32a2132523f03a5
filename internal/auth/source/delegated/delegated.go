package delegated

import (
	"context"
	"errors"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/provider"
	"entry-gate/internal/auth/source"
	"entry-gate/internal/logger"
)

// PasswordAuthenticator verifies an email/password pair at the provider.
type PasswordAuthenticator interface {
	PasswordLogin(ctx context.Context, email, password string) (*auth.Identity, error)
}

// UserRegistrar creates an account at the provider.
type UserRegistrar interface {
	CreateUser(ctx context.Context, req auth.RegistrationRequest) (*auth.Identity, error)
}

// Source is the delegated identity source. It verifies who the user is
// and never says which role they have.
type Source struct {
	password  PasswordAuthenticator
	registrar UserRegistrar
	providers *provider.Registry
}

// New wires the delegated source. registrar may be nil, in which case
// email sign-up is reported as unavailable.
func New(
	password PasswordAuthenticator,
	registrar UserRegistrar,
	providers *provider.Registry,
) *Source {
	if providers == nil {
		providers = provider.NewRegistry()
	}
	return &Source{
		password:  password,
		registrar: registrar,
		providers: providers,
	}
}

func (s *Source) Variant() source.Variant {
	return source.VariantDelegated
}

func (s *Source) Authenticate(
	ctx context.Context,
	creds auth.Credentials,
) (auth.Result, error) {

	var (
		identity *auth.Identity
		err      error
	)

	switch c := creds.(type) {
	case auth.PasswordCredentials:
		if s.password == nil {
			return auth.Result{}, auth.NewAuthError(msgPasswordUnavailable, nil)
		}
		identity, err = s.password.PasswordLogin(ctx, c.Email, c.Password)

	case auth.FederatedCredentials:
		p, lookupErr := s.providers.Get(c.Provider)
		if lookupErr != nil {
			return auth.Result{}, auth.NewAuthError(msgUnknownProvider, lookupErr)
		}
		identity, err = p.ExchangeCode(ctx, c.Code, c.CodeVerifier)

	default:
		return auth.Result{}, auth.NewAuthError(msgUnsupportedCredentials, nil)
	}

	if err != nil {
		return auth.Result{}, translate(err)
	}

	return auth.Result{Identity: *identity}, nil
}

// Register creates the account at the provider. The requested role is not
// stored there; persisting it is the caller's job.
func (s *Source) Register(
	ctx context.Context,
	req auth.RegistrationRequest,
) (auth.Result, error) {

	if s.registrar == nil {
		return auth.Result{}, auth.NewAuthError(msgSignupUnavailable, nil)
	}

	identity, err := s.registrar.CreateUser(ctx, req)
	if err != nil {
		return auth.Result{}, translate(err)
	}

	return auth.Result{Identity: *identity}, nil
}

// translate maps provider error codes to readable messages. Errors that
// are not provider rejections pass through for the caller to classify.
func translate(err error) error {
	var perr *provider.Error
	if !errors.As(err, &perr) {
		return err
	}

	logger.Warn("provider rejected request", map[string]any{
		"provider": perr.Provider,
		"code":     perr.Code,
	})

	return auth.NewAuthError(messageFor(perr), err)
}

package keycloak

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/provider"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const providerName = "keycloak"

// Options locates the realm and the clients the gate uses.
// BaseURL is the address the gate reaches Keycloak on; PublicBaseURL is the
// one browsers are redirected to. They differ behind docker networks.
type Options struct {
	BaseURL       string
	PublicBaseURL string
	Realm         string
	ClientID      string
	ClientSecret  string
	RedirectURL   string

	// Service-account client allowed to create users. Optional; without
	// it CreateUser is unavailable.
	AdminClientID     string
	AdminClientSecret string
}

func (o Options) issuer() string {
	return strings.TrimRight(o.BaseURL, "/") + "/realms/" + o.Realm
}

// Provider implements Keycloak as the delegated identity provider: password
// login via the resource-owner grant, browser login via OAuth + OIDC, and
// account creation via the admin API. It returns identity facts only; no
// role or session decisions are made here.
type Provider struct {
	opts        Options
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	adminTokens oauth2.TokenSource
}

// New initializes a Keycloak OIDC provider using discovery.
func New(ctx context.Context, opts Options) (*Provider, error) {
	if opts.BaseURL == "" || opts.Realm == "" || opts.ClientID == "" || opts.RedirectURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}
	if opts.PublicBaseURL == "" {
		opts.PublicBaseURL = opts.BaseURL
	}

	oidcProvider, err := oidc.NewProvider(ctx, opts.issuer())
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	ep := oidcProvider.Endpoint()
	ep.AuthURL = strings.TrimRight(opts.PublicBaseURL, "/") +
		"/realms/" + opts.Realm + "/protocol/openid-connect/auth"

	return newProvider(
		opts,
		ep,
		oidcProvider.Verifier(&oidc.Config{ClientID: opts.ClientID}),
	), nil
}

func newProvider(opts Options, ep oauth2.Endpoint, verifier *oidc.IDTokenVerifier) *Provider {
	ep.AuthStyle = oauth2.AuthStyleInParams

	p := &Provider{
		opts: opts,
		oauthConfig: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Endpoint:     ep,
			Scopes: []string{
				oidc.ScopeOpenID,
				"email",
				"profile",
			},
		},
		verifier: verifier,
	}

	if opts.AdminClientID != "" {
		cc := &clientcredentials.Config{
			ClientID:     opts.AdminClientID,
			ClientSecret: opts.AdminClientSecret,
			TokenURL:     ep.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		p.adminTokens = cc.TokenSource(context.Background())
	}

	return p
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code and returns a normalized identity.
// This method MUST NOT create users, sessions, or perform linking logic.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, provider.FromRetrieveError(providerName, err)
	}

	return provider.VerifyToken(ctx, providerName, auth.KindFederated, p.verifier, token)
}

// PasswordLogin verifies an email/password pair with the realm's
// resource-owner password grant.
func (p *Provider) PasswordLogin(
	ctx context.Context,
	email string,
	password string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, provider.FromRetrieveError(providerName, err)
	}

	return provider.VerifyToken(ctx, providerName, auth.KindPassword, p.verifier, token)
}

package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/provider"
	"entry-gate/internal/logger"

	"golang.org/x/oauth2"
)

var ErrRegistrationDisabled = errors.New("keycloak: admin client not configured")

type userRepresentation struct {
	Username      string                     `json:"username"`
	Email         string                     `json:"email"`
	FirstName     string                     `json:"firstName,omitempty"`
	Enabled       bool                       `json:"enabled"`
	EmailVerified bool                       `json:"emailVerified"`
	Credentials   []credentialRepresentation `json:"credentials"`
}

type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type adminError struct {
	ErrorMessage string `json:"errorMessage"`
	Error        string `json:"error"`
}

// CreateUser creates an enabled realm user with a permanent password.
// The returned identity carries the new Keycloak user id as subject; it
// has no role, Keycloak does not store one for the gate.
func (p *Provider) CreateUser(
	ctx context.Context,
	req auth.RegistrationRequest,
) (*auth.Identity, error) {

	if p.adminTokens == nil {
		return nil, ErrRegistrationDisabled
	}

	email := strings.TrimSpace(req.Email)
	body, err := json.Marshal(userRepresentation{
		Username:  email,
		Email:     email,
		FirstName: strings.TrimSpace(req.Name),
		Enabled:   true,
		Credentials: []credentialRepresentation{{
			Type:  "password",
			Value: req.Password,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("keycloak: encode user: %w", err)
	}

	endpoint := strings.TrimRight(p.opts.BaseURL, "/") + "/admin/realms/" + url.PathEscape(p.opts.Realm) + "/users"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("keycloak: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := oauth2.NewClient(ctx, p.adminTokens).Do(httpReq)
	if err != nil {
		return nil, provider.FromRetrieveError(providerName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusConflict:
		return nil, &provider.Error{Provider: providerName, Code: provider.CodeUserExists, Description: readAdminError(resp.Body)}
	case http.StatusBadRequest:
		return nil, &provider.Error{Provider: providerName, Code: provider.CodeInvalidUser, Description: readAdminError(resp.Body)}
	default:
		logger.Error("keycloak create user failed", map[string]any{
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("keycloak: create user returned %d", resp.StatusCode)
	}

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil || loc.Path == "" {
		return nil, errors.New("keycloak: create user response missing Location")
	}

	return &auth.Identity{
		SubjectID:   path.Base(loc.Path),
		Email:       email,
		DisplayName: strings.TrimSpace(req.Name),
		Kind:        auth.KindPassword,
		Provider:    providerName,
	}, nil
}

func readAdminError(r io.Reader) string {
	var body adminError
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	if body.ErrorMessage != "" {
		return body.ErrorMessage
	}
	return body.Error
}

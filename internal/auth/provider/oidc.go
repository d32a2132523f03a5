package provider

import (
	"context"
	"errors"
	"fmt"

	"entry-gate/internal/auth"
	"entry-gate/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Claims is the subset of id_token claims the gate needs.
type Claims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

// VerifyToken pulls the id_token out of an OAuth token response, verifies
// it and returns a normalized identity of the given kind.
func VerifyToken(
	ctx context.Context,
	name string,
	kind auth.Kind,
	verifier *oidc.IDTokenVerifier,
	token *oauth2.Token,
) (*auth.Identity, error) {

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, &Error{Provider: name, Code: CodeNoIDToken, Err: errors.New("provider did not return id_token")}
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		logger.Error("id_token verification failed", map[string]any{
			"provider": name,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%s id_token verification failed: %w", name, err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s id_token claims parse failed: %w", name, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, &Error{Provider: name, Code: CodeMissingClaims, Err: errors.New("id_token missing sub or email")}
	}

	logger.Info("oidc verified", map[string]any{
		"provider":        name,
		"issuer":          idToken.Issuer,
		"subject_present": claims.Subject != "",
		"email_verified":  claims.EmailVerified,
		"expiry_unix":     idToken.Expiry.Unix(),
	})

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.PreferredUsername
	}

	return &auth.Identity{
		SubjectID:     claims.Subject,
		Email:         claims.Email,
		DisplayName:   displayName,
		EmailVerified: claims.EmailVerified,
		Kind:          kind,
		Provider:      name,
	}, nil
}

// FromRetrieveError turns an OAuth token endpoint rejection into *Error so
// callers can switch on the provider's code. Other errors pass through.
func FromRetrieveError(name string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		code := re.ErrorCode
		if code == "" && re.Response != nil {
			code = fmt.Sprintf("http_%d", re.Response.StatusCode)
		}
		return &Error{Provider: name, Code: code, Description: re.ErrorDescription, Err: err}
	}
	return err
}

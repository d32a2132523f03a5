package appservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/source"
	"entry-gate/internal/logger"
)

const remoteProviderName = "backend"

// Remote talks to a first-party backend exposing POST /login and
// POST /signup. Failures carry {"detail": "..."}.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote builds a client for the backend at baseURL. A nil client means
// http.DefaultClient; deadlines come from the caller's context.
func NewRemote(baseURL string, client *http.Client) (*Remote, error) {
	if baseURL == "" {
		return nil, errors.New("appservice: backend url is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

func (r *Remote) Variant() source.Variant {
	return source.VariantApplication
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Message string `json:"message"`
	User    struct {
		ID    json.Number `json:"id"`
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Role  string      `json:"role"`
	} `json:"user"`
}

type signupResponse struct {
	Message string      `json:"message"`
	UserID  json.Number `json:"user_id"`
}

func (r *Remote) Authenticate(
	ctx context.Context,
	creds auth.Credentials,
) (auth.Result, error) {

	pw, ok := creds.(auth.PasswordCredentials)
	if !ok {
		return auth.Result{}, auth.NewAuthError(msgFederatedUnsupported, nil)
	}

	var res loginResponse
	if err := r.post(ctx, "/login", loginPayload{Email: pw.Email, Password: pw.Password}, &res); err != nil {
		return auth.Result{}, err
	}

	role, err := auth.ParseRole(res.User.Role)
	if err != nil {
		logger.Error("backend returned unknown role", map[string]any{
			"role": res.User.Role,
		})
		return auth.Result{}, auth.NewAuthError(msgUnexpectedResponse, err)
	}

	email := res.User.Email
	if email == "" {
		email = pw.Email
	}

	return auth.Result{
		Identity: auth.Identity{
			SubjectID:   res.User.ID.String(),
			Email:       email,
			DisplayName: res.User.Name,
			Kind:        auth.KindPassword,
			Provider:    remoteProviderName,
		},
		Role: auth.RolePtr(role),
	}, nil
}

// Register creates the account remotely. The backend persists the requested
// role, so it is returned as authoritative.
func (r *Remote) Register(
	ctx context.Context,
	req auth.RegistrationRequest,
) (auth.Result, error) {

	var res signupResponse
	err := r.post(ctx, "/signup", signupPayload{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     string(req.RequestedRole),
	}, &res)
	if err != nil {
		return auth.Result{}, err
	}

	return auth.Result{
		Identity: auth.Identity{
			SubjectID:   res.UserID.String(),
			Email:       req.Email,
			DisplayName: req.Name,
			Kind:        auth.KindPassword,
			Provider:    remoteProviderName,
		},
		Role: auth.RolePtr(req.RequestedRole),
	}, nil
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (r *Remote) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("appservice: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("appservice: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("appservice: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("appservice: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return auth.NewAuthError(detailMessage(raw, resp.StatusCode), fmt.Errorf("appservice: %s returned %d", path, resp.StatusCode))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return auth.NewAuthError(msgUnexpectedResponse, fmt.Errorf("appservice: decode response: %w", err))
	}
	return nil
}

// detailMessage extracts the human-readable detail. Validation failures
// carry a list of {msg} objects instead of a string.
func detailMessage(raw []byte, status int) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
			return s
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
			return items[0].Msg
		}
	}
	return "Request failed (" + strconv.Itoa(status) + ")."
}

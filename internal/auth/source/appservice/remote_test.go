package appservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"entry-gate/internal/auth"
)

// fakeBackend mimics the first-party backend contract with in-memory users.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	type user struct {
		id       int
		name     string
		password string
		role     string
	}
	users := map[string]user{}
	nextID := 1

	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var p signupPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		if _, ok := users[p.Email]; ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Email already exists"}`))
			return
		}
		users[p.Email] = user{id: nextID, name: p.Name, password: p.Password, role: p.Role}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "User registered successfully", "user_id": nextID})
		nextID++
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var p loginPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		u, ok := users[p.Email]
		if !ok || u.password != p.Password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user":    map[string]any{"id": u.id, "name": u.name, "email": p.Email, "role": u.role},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteRegisterThenLogin(t *testing.T) {
	srv := fakeBackend(t)
	remote, err := NewRemote(srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	reg, err := remote.Register(ctx, auth.RegistrationRequest{
		Name: "Bob", Email: "bob@x.com", Password: "abcdef", RequestedRole: auth.RoleRecipient,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Identity.SubjectID != "1" || reg.Role == nil || *reg.Role != auth.RoleRecipient {
		t.Fatalf("unexpected register result %+v", reg)
	}

	res, err := remote.Authenticate(ctx, auth.PasswordCredentials{Email: "bob@x.com", Password: "abcdef"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Role == nil || *res.Role != auth.RoleRecipient {
		t.Fatalf("expected authoritative Recipient, got %+v", res.Role)
	}
	if res.Identity.DisplayName != "Bob" || res.Identity.Provider != remoteProviderName {
		t.Fatalf("unexpected identity %+v", res.Identity)
	}
}

func TestRemoteSurfacesDetail(t *testing.T) {
	srv := fakeBackend(t)
	remote, _ := NewRemote(srv.URL, srv.Client())

	_, err := remote.Authenticate(context.Background(), auth.PasswordCredentials{Email: "bob@x.com", Password: "wrongpass"})

	var aerr *auth.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if aerr.Message != "Invalid credentials" {
		t.Fatalf("message = %q", aerr.Message)
	}
}

func TestRemoteRejectsUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok","user":{"id":3,"email":"a@x.com","role":"Owner"}}`))
	}))
	defer srv.Close()

	remote, _ := NewRemote(srv.URL, srv.Client())
	_, err := remote.Authenticate(context.Background(), auth.PasswordCredentials{Email: "a@x.com", Password: "x"})

	var aerr *auth.AuthError
	if !errors.As(err, &aerr) || aerr.Message != msgUnexpectedResponse {
		t.Fatalf("expected unexpected-response AuthError, got %v", err)
	}
}

func TestRemoteRejectsFederated(t *testing.T) {
	remote, _ := NewRemote("http://backend.invalid", nil)
	_, err := remote.Authenticate(context.Background(), auth.FederatedCredentials{Provider: "google"})

	var aerr *auth.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"detail":"Email already exists"}`, "Email already exists"},
		{`{"detail":[{"msg":"value is not a valid email address"}]}`, "value is not a valid email address"},
		{`not json`, "Request failed (502)."},
	}
	for _, tt := range tests {
		if got := detailMessage([]byte(tt.raw), 502); got != tt.want {
			t.Fatalf("detailMessage(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

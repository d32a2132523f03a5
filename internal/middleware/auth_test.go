package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"
	"entry-gate/internal/session"

	"github.com/gin-gonic/gin"
)

type memSessions struct {
	sessions map[string]session.Session
	deleted  []string
}

func (m *memSessions) Create(_ context.Context, s session.Session) error {
	m.sessions[s.SessionID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Update(ctx context.Context, s session.Session) error {
	return m.Create(ctx, s)
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newRouter(store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewAuthMiddleware(store, session.CookieOptions{})

	r := gin.New()
	for _, role := range auth.Roles() {
		role := role
		g := r.Group("/")
		g.Use(GinRequireSession(mw), GinRequireRole(role))
		g.GET(dispatch.Route(role), func(c *gin.Context) {
			sess, _ := SessionFromContext(c.Request.Context())
			c.String(http.StatusOK, sess.Email)
		})
	}
	return r
}

func request(r http.Handler, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.DevCookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoleGuard(t *testing.T) {
	store := &memSessions{sessions: map[string]session.Session{
		"sid-vol": {
			SessionID: "sid-vol",
			SubjectID: "s1",
			Email:     "volunteer@x.com",
			Role:      auth.RoleVolunteer,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	r := newRouter(store)

	tests := []struct {
		name     string
		path     string
		sid      string
		status   int
		location string
	}{
		{"own route", "/volunteer", "sid-vol", http.StatusOK, ""},
		{"foreign route redirects home", "/admin", "sid-vol", http.StatusSeeOther, "/volunteer"},
		{"no cookie", "/volunteer", "", http.StatusUnauthorized, ""},
		{"unknown session", "/volunteer", "sid-missing", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(r, tt.path, tt.sid)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Fatalf("location = %q, want %q", got, tt.location)
			}
		})
	}

	if rec := request(r, "/volunteer", "sid-vol"); rec.Body.String() != "volunteer@x.com" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestExpiredSessionIsDeleted(t *testing.T) {
	store := &memSessions{sessions: map[string]session.Session{
		"sid-old": {
			SessionID: "sid-old",
			SubjectID: "s1",
			Role:      auth.RoleDonor,
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}}
	r := newRouter(store)

	rec := request(r, "/donor", "sid-old")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "sid-old" {
		t.Fatalf("deleted = %v", store.deleted)
	}
}

package handler

import (
	"net/http"
	"time"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"
	"entry-gate/internal/auth/gate"
	"entry-gate/internal/auth/provider"
	"entry-gate/internal/logger"
	"entry-gate/internal/metrics"
	"entry-gate/internal/session"

	"github.com/gin-gonic/gin"
)

// Options configures session issuance.
type Options struct {
	Cookie     session.CookieOptions
	SessionTTL time.Duration
}

type Handler struct {
	gate       *gate.Gate
	providers  *provider.Registry
	sessions   session.Store
	dispatcher dispatch.Dispatcher
	opts       Options
	now        func() time.Time
}

func NewHandler(
	g *gate.Gate,
	registry *provider.Registry,
	sessions session.Store,
	opts Options,
) *Handler {
	if registry == nil {
		registry = provider.NewRegistry()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Handler{
		gate:      g,
		providers: registry,
		sessions:  sessions,
		opts:      opts,
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/signup", h.signup)
	r.POST("/auth/logout", h.logout)
	r.GET("/auth/providers", h.listProviders)

	r.GET("/oauth/login/:provider", h.oauthStart)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

// complete records the session for a resolved login and dispatches it.
func (h *Handler) complete(c *gin.Context, outcome *auth.SessionOutcome, nav dispatch.Navigator) {
	sess, err := session.New(outcome, h.now(), h.opts.SessionTTL)
	if err != nil {
		logger.Error("build session failed", map[string]any{"error": err.Error()})
		writeError(c, err, nil)
		return
	}

	if err := h.sessions.Create(c.Request.Context(), sess); err != nil {
		logger.Error("persist session failed", map[string]any{"error": err.Error()})
		writeError(c, err, nil)
		return
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, h.opts.Cookie)

	if err := h.dispatcher.Dispatch(nav, outcome); err != nil {
		logger.Error("dispatch failed", map[string]any{"error": err.Error()})
		return
	}

	metrics.Dispatches.WithLabelValues(outcome.Role.String()).Inc()
	logger.Info("session dispatched", map[string]any{
		"provider": outcome.Identity.Provider,
		"role":     outcome.Role.String(),
		"route":    outcome.DestinationRoute,
		"ip":       c.ClientIP(),
	})
}

func (h *Handler) logout(c *gin.Context) {
	if sid := session.ReadCookie(c.Request, h.opts.Cookie); sid != "" {
		// best-effort
		if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
			logger.Warn("delete session failed", map[string]any{"error": err.Error()})
		}
	}

	session.ClearCookie(c.Writer, h.opts.Cookie)
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"source":    string(h.gate.Variant()),
		"providers": h.providers.Names(),
	})
}

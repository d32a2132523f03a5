package app

import (
	"context"
	"net/http"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"
	"entry-gate/internal/auth/gate"
	"entry-gate/internal/auth/handler"
	"entry-gate/internal/auth/provider"
	"entry-gate/internal/config"
	"entry-gate/internal/metrics"
	"entry-gate/internal/middleware"
	"entry-gate/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	src, registry, err := setupSource(ctx, cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	roleResolver, roleStore := setupResolver(cfg, infra)

	authGate := gate.New(src, roleResolver, gate.Options{
		Timeout: cfg.AuthTimeout,
		Roles:   roleStore,
	})

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	cookie := session.CookieOptions{Secure: cfg.CookieSecure, SameSite: http.SameSiteLaxMode}

	return newRouter(authGate, registry, sessionStore, cookie, cfg), infra.Close, nil
}

func newRouter(
	authGate *gate.Gate,
	registry *provider.Registry,
	sessions session.Store,
	cookie session.CookieOptions,
	cfg config.Config,
) *gin.Engine {

	router := gin.New()
	router.Use(gin.Recovery())

	handler.NewHandler(authGate, registry, sessions, handler.Options{
		Cookie:     cookie,
		SessionTTL: cfg.SessionTTL,
	}).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(sessions, cookie)

	for _, role := range auth.Roles() {
		area := router.Group(dispatch.Route(role))
		area.Use(
			middleware.GinRequireSession(authMiddleware),
			middleware.GinRequireRole(role),
		)
		area.GET("", dashboard(role))
	}

	return router
}

// dashboard is the placeholder landing page of a role's area.
func dashboard(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := middleware.SessionFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"role":  role.String(),
			"email": sess.Email,
			"name":  sess.DisplayName,
		})
	}
}

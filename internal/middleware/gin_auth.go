package middleware

import (
	"net/http"

	"entry-gate/internal/auth"

	"github.com/gin-gonic/gin"
)

// bridge runs a net/http middleware inside a gin chain. The wrapped
// middleware either writes a response, which aborts the chain, or calls
// through with a possibly enriched request.
func bridge(wrap func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		wrap(next).ServeHTTP(c.Writer, c.Request)

		if c.Writer.Written() {
			c.Abort()
		}
	}
}

// GinRequireSession adapts RequireSession to gin.
func GinRequireSession(a *AuthMiddleware) gin.HandlerFunc {
	return bridge(a.RequireSession)
}

// GinRequireRole adapts RequireRole to gin.
func GinRequireRole(role auth.Role) gin.HandlerFunc {
	return bridge(func(next http.Handler) http.Handler {
		return RequireRole(role, next)
	})
}

package handler

import (
	"net/http"
	"time"

	"entry-gate/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName  = "__oauth_state"
	pkceCookieName   = "__oauth_pkce"
	intentCookieName = "__oauth_intent"
	flowTTL          = 5 * time.Minute
)

// setFlowCookie stores short-lived values that must survive the round
// trip through the identity provider.
func (h *Handler) setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/oauth/",
		HttpOnly: true,
		Secure:   h.opts.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flowTTL.Seconds()),
	})
}

func flowCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// clearFlowCookies makes every callback single use.
func (h *Handler) clearFlowCookies(c *gin.Context) {
	for _, name := range []string{stateCookieName, pkceCookieName, intentCookieName} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/oauth/",
			HttpOnly: true,
			Secure:   h.opts.Cookie.Secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func (h *Handler) generateState(c *gin.Context) string {
	state := utils.RandomString(32)
	h.setFlowCookie(c, stateCookieName, state)
	return state
}

// validateState returns the state when the query matches the cookie.
func validateState(c *gin.Context) (string, bool) {
	state := c.Query("state")
	if state == "" {
		return "", false
	}
	return state, flowCookie(c, stateCookieName) == state
}

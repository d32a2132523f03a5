package handler

import (
	"net/http"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"
	"entry-gate/internal/logger"

	"github.com/gin-gonic/gin"
)

const intentSignup = "signup"

// oauthStart sends the browser to the provider. With intent=signup the
// chosen role rides along in a cookie and is claimed on callback.
func (h *Handler) oauthStart(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sign-in provider"})
		return
	}

	if c.Query("intent") == intentSignup {
		role, err := auth.ParseRole(c.Query("role"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Please choose a valid role.",
				"field": "role",
				"form":  gin.H{"role": c.Query("role")},
			})
			return
		}
		h.setFlowCookie(c, intentCookieName, role.String())
	}

	state := h.generateState(c)
	challenge := h.generatePKCE(c)

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	if _, err := h.providers.Get(providerName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sign-in provider"})
		return
	}

	state, ok := validateState(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	verifier := flowCookie(c, pkceCookieName)
	intent := flowCookie(c, intentCookieName)
	h.clearFlowCookies(c)

	// the provider refused or the user backed out; start over
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		back := dispatch.RouteLogin
		if intent != "" {
			back = dispatch.RouteSignup
		}
		c.Redirect(http.StatusFound, back)
		return
	}

	creds := auth.FederatedCredentials{
		Provider:     providerName,
		Code:         c.Query("code"),
		CodeVerifier: verifier,
		State:        state,
	}
	if intent != "" {
		role := auth.Role(intent)
		creds.RequestedRole = &role
	}

	outcome, err := h.gate.Login(c.Request.Context(), creds)
	if err != nil {
		writeError(c, err, gin.H{"provider": providerName})
		return
	}

	h.complete(c, outcome, navigator{c: c, redirect: http.StatusFound})
}

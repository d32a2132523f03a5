package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"entry-gate/internal/utils"

	"github.com/gin-gonic/gin"
)

// generatePKCE stores a fresh verifier and returns its S256 challenge.
func (h *Handler) generatePKCE(c *gin.Context) (challenge string) {
	verifier := utils.RandomString(32)
	h.setFlowCookie(c, pkceCookieName, verifier)
	return pkceChallenge(verifier)
}

func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

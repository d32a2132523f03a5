package handler

import (
	"net/http"

	"entry-gate/internal/auth"

	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Email    string `form:"email"    json:"email"`
	Password string `form:"password" json:"password"`
}

func (f loginForm) echo() gin.H {
	return gin.H{"email": f.Email}
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadInput, "form": gin.H{}})
		return
	}

	outcome, err := h.gate.Login(c.Request.Context(), auth.PasswordCredentials{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		writeError(c, err, form.echo())
		return
	}

	h.complete(c, outcome, navigator{
		c:        c,
		json:     wantsJSON(c),
		redirect: http.StatusSeeOther,
		body:     gin.H{"status": "authenticated", "role": outcome.Role.String()},
	})
}

package handler

import (
	"net/http"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"

	"github.com/gin-gonic/gin"
)

type signupForm struct {
	Name     string `form:"name"     json:"name"`
	Email    string `form:"email"    json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role"     json:"role"`
}

func (f signupForm) echo() gin.H {
	return gin.H{"name": f.Name, "email": f.Email, "role": f.Role}
}

// requestedRole normalizes the submitted role. Unknown values are passed
// through so validation reports them against the role field.
func (f signupForm) requestedRole() auth.Role {
	if role, err := auth.ParseRole(f.Role); err == nil {
		return role
	}
	return auth.Role(f.Role)
}

// signup creates the account and sends the user to the login form. No
// session is issued here.
func (h *Handler) signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadInput, "form": gin.H{}})
		return
	}

	err := h.gate.Register(c.Request.Context(), auth.RegistrationRequest{
		Name:          form.Name,
		Email:         form.Email,
		Password:      form.Password,
		RequestedRole: form.requestedRole(),
	})
	if err != nil {
		writeError(c, err, form.echo())
		return
	}

	navigator{
		c:        c,
		json:     wantsJSON(c),
		redirect: http.StatusSeeOther,
		body:     gin.H{"status": "registered"},
	}.Navigate(dispatch.RouteLogin)
}

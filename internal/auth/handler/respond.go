package handler

import (
	"context"
	"errors"
	"net/http"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"
	"entry-gate/internal/auth/gate"
	"entry-gate/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	msgPending  = "A request is already in progress."
	msgInternal = "Something went wrong. Please try again."
	msgBadInput = "Invalid request."
)

// navigator answers a successful flow. Browser posts and OAuth callbacks
// are redirected; JSON clients get the destination in the body.
type navigator struct {
	c        *gin.Context
	json     bool
	redirect int
	body     gin.H
}

func (n navigator) Navigate(path string) {
	if !n.json {
		n.c.Redirect(n.redirect, path)
		return
	}
	body := gin.H{"redirect": path}
	for k, v := range n.body {
		body[k] = v
	}
	n.c.JSON(http.StatusOK, body)
}

var _ dispatch.Navigator = navigator{}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}

// writeError turns a flow error into the display state: a message and
// the echoed, non-secret form fields.
func writeError(c *gin.Context, err error, form gin.H) {
	if form == nil {
		form = gin.H{}
	}

	var (
		verr *auth.ValidationError
		aerr *auth.AuthError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field, "form": form})
	case errors.Is(err, auth.ErrSubmitPending):
		c.JSON(http.StatusConflict, gin.H{"error": msgPending, "form": form})
	case errors.Is(err, auth.ErrUnassignedRole):
		c.JSON(http.StatusForbidden, gin.H{"error": gate.UnassignedMessage, "form": form})
	case errors.As(err, &aerr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": aerr.Message, "form": form})
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads the answer
		c.AbortWithStatus(http.StatusRequestTimeout)
	default:
		logger.Error("request failed", map[string]any{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal, "form": form})
	}
}

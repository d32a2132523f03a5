package gate

import (
	"context"
	"errors"
	"time"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/resolver"
	"entry-gate/internal/auth/source"
	"entry-gate/internal/logger"
)

const DefaultTimeout = 10 * time.Second

const (
	msgLoginFailed    = "Sign-in failed. Please try again."
	msgSignupFailed   = "Sign-up failed. Please try again."
	msgTimeout        = "The sign-in service did not respond in time. Please try again."
	msgRoleLookup     = "We could not load your account. Please try again."
	msgRoleNotSaved   = "Your account was created but your role could not be saved. Please contact support."
	msgUnassignedRole = "Your account has no role assigned yet."
)

// UnassignedMessage is the user-facing text for auth.ErrUnassignedRole.
const UnassignedMessage = msgUnassignedRole

// Options tunes a Gate. Zero values are usable.
type Options struct {
	// Timeout bounds every identity-source call. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Roles is the durable role store used to persist the role a user
	// picked at signup when the source cannot store it. Optional.
	Roles resolver.RoleStore
}

// Gate turns form submissions into identity-source calls, role
// resolutions and session outcomes. One Gate serves all requests; per-form
// exclusivity is enforced by its guard.
type Gate struct {
	source   source.Source
	resolver resolver.Resolver
	roles    resolver.RoleStore
	timeout  time.Duration
	guard    *guard
}

func New(src source.Source, res resolver.Resolver, opts Options) *Gate {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Gate{
		source:   src,
		resolver: res,
		roles:    opts.Roles,
		timeout:  opts.Timeout,
		guard:    newGuard(),
	}
}

// Variant reports which identity source the gate was configured with.
func (g *Gate) Variant() source.Variant {
	return g.source.Variant()
}

// call runs one identity-source request under the gate's timeout.
func (g *Gate) call(
	ctx context.Context,
	fn func(context.Context) (auth.Result, error),
) (auth.Result, error) {

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	return fn(callCtx)
}

// asAuthError keeps a source-provided message and gives everything else
// a readable one. Callers treat all of them the same way.
func asAuthError(err error, generic string) *auth.AuthError {
	var aerr *auth.AuthError
	if errors.As(err, &aerr) {
		return aerr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return auth.NewAuthError(msgTimeout, err)
	}
	return auth.NewAuthError(generic, err)
}

// discarded reports whether the caller went away while the call was in
// flight; the late result must not be acted upon.
func discarded(ctx context.Context, op string) bool {
	if ctx.Err() == nil {
		return false
	}
	logger.Warn("discarding late identity source result", map[string]any{
		"operation": op,
		"reason":    ctx.Err().Error(),
	})
	return true
}

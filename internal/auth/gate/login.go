package gate

import (
	"context"
	"errors"

	"entry-gate/internal/auth"
	"entry-gate/internal/auth/dispatch"
	"entry-gate/internal/logger"
	"entry-gate/internal/metrics"
)

// Login authenticates creds against the identity source, resolves a role
// and returns the outcome to dispatch. On any error no outcome is
// returned and nothing must be navigated.
//
// Errors are *auth.ValidationError, *auth.AuthError, auth.ErrSubmitPending,
// auth.ErrUnassignedRole or the caller's context error when the result
// arrived after the caller gave up.
func (g *Gate) Login(ctx context.Context, creds auth.Credentials) (*auth.SessionOutcome, error) {
	kind := kindOf(creds)

	if err := creds.Validate(); err != nil {
		g.countLogin(kind, metrics.OutcomeValidation)
		return nil, err
	}

	release, ok := g.guard.acquire(creds.Key())
	if !ok {
		metrics.SuppressedSubmits.WithLabelValues("login").Inc()
		return nil, auth.ErrSubmitPending
	}
	defer release()

	res, err := g.call(ctx, func(callCtx context.Context) (auth.Result, error) {
		return g.source.Authenticate(callCtx, creds)
	})
	if discarded(ctx, "login") {
		g.countLogin(kind, metrics.OutcomeDiscarded)
		return nil, ctx.Err()
	}
	if err != nil {
		g.countLogin(kind, metrics.OutcomeRejected)
		return nil, asAuthError(err, msgLoginFailed)
	}

	if fc, ok := creds.(auth.FederatedCredentials); ok && fc.RequestedRole != nil && res.Role == nil {
		g.claimRole(ctx, res.Identity, *fc.RequestedRole)
	}

	role, err := g.resolver.Resolve(ctx, res.Identity, res.Role)
	if err != nil {
		if errors.Is(err, auth.ErrUnassignedRole) {
			g.countLogin(kind, metrics.OutcomeUnassigned)
			logger.Warn("identity has no role", map[string]any{
				"provider":   res.Identity.Provider,
				"subject_id": res.Identity.SubjectID,
			})
			return nil, err
		}
		g.countLogin(kind, metrics.OutcomeError)
		logger.Error("role resolution failed", map[string]any{
			"provider": res.Identity.Provider,
			"error":    err.Error(),
		})
		return nil, auth.NewAuthError(msgRoleLookup, err)
	}
	if !role.Valid() {
		g.countLogin(kind, metrics.OutcomeError)
		return nil, auth.NewAuthError(msgRoleLookup, errors.New("resolver returned role outside the set: "+string(role)))
	}

	g.countLogin(kind, metrics.OutcomeSuccess)
	logger.Info("login succeeded", map[string]any{
		"provider":      res.Identity.Provider,
		"kind":          string(res.Identity.Kind),
		"role":          role.String(),
		"authoritative": res.Role != nil,
	})

	return &auth.SessionOutcome{
		Identity:         res.Identity,
		Role:             role,
		DestinationRoute: dispatch.Route(role),
	}, nil
}

// claimRole stores the role requested on a federated signup, unless the
// identity already has one. Failure is logged; the login still proceeds
// with whatever the resolver decides.
func (g *Gate) claimRole(ctx context.Context, identity auth.Identity, role auth.Role) {
	if g.roles == nil {
		logger.Warn("requested role dropped, no role store configured", map[string]any{
			"provider": identity.Provider,
			"role":     role.String(),
		})
		metrics.RolesReconciled.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return
	}

	wrote, err := g.roles.AssignIfAbsent(ctx, identity, role)
	if err != nil {
		logger.Error("store requested role failed", map[string]any{
			"provider": identity.Provider,
			"error":    err.Error(),
		})
		metrics.RolesReconciled.WithLabelValues(metrics.OutcomeError).Inc()
		return
	}
	if wrote {
		metrics.RolesReconciled.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}
}

func (g *Gate) countLogin(kind auth.Kind, outcome string) {
	metrics.LoginAttempts.WithLabelValues(string(g.source.Variant()), string(kind), outcome).Inc()
}

func kindOf(creds auth.Credentials) auth.Kind {
	if _, ok := creds.(auth.FederatedCredentials); ok {
		return auth.KindFederated
	}
	return auth.KindPassword
}

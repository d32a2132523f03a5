package gate

import (
	"context"

	"entry-gate/internal/auth"
	"entry-gate/internal/logger"
	"entry-gate/internal/metrics"
)

// Register creates an account. It never produces a session: the caller
// navigates to the login route on success.
//
// When the source does not store roles, the requested role is written to
// the role store so a later login under a stored strategy can find it.
func (g *Gate) Register(ctx context.Context, req auth.RegistrationRequest) error {
	if err := req.Validate(); err != nil {
		g.countSignup(metrics.OutcomeValidation)
		return err
	}

	release, ok := g.guard.acquire(req.Key())
	if !ok {
		metrics.SuppressedSubmits.WithLabelValues("signup").Inc()
		return auth.ErrSubmitPending
	}
	defer release()

	res, err := g.call(ctx, func(callCtx context.Context) (auth.Result, error) {
		return g.source.Register(callCtx, req)
	})
	if discarded(ctx, "signup") {
		g.countSignup(metrics.OutcomeDiscarded)
		return ctx.Err()
	}
	if err != nil {
		g.countSignup(metrics.OutcomeRejected)
		return asAuthError(err, msgSignupFailed)
	}

	if res.Role == nil {
		if err := g.reconcile(ctx, res.Identity, req.RequestedRole); err != nil {
			g.countSignup(metrics.OutcomeError)
			return err
		}
	}

	g.countSignup(metrics.OutcomeSuccess)
	logger.Info("signup succeeded", map[string]any{
		"provider": res.Identity.Provider,
		"role":     req.RequestedRole.String(),
	})
	return nil
}

// reconcile persists the requested role for a role-blind source.
func (g *Gate) reconcile(ctx context.Context, identity auth.Identity, role auth.Role) error {
	if g.roles == nil {
		logger.Warn("requested role not persisted, no role store configured", map[string]any{
			"provider": identity.Provider,
			"role":     role.String(),
		})
		metrics.RolesReconciled.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return nil
	}

	if err := g.roles.Assign(ctx, identity, role); err != nil {
		logger.Error("persist requested role failed", map[string]any{
			"provider":   identity.Provider,
			"subject_id": identity.SubjectID,
			"error":      err.Error(),
		})
		metrics.RolesReconciled.WithLabelValues(metrics.OutcomeError).Inc()
		return auth.NewAuthError(msgRoleNotSaved, err)
	}

	metrics.RolesReconciled.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

func (g *Gate) countSignup(outcome string) {
	metrics.Registrations.WithLabelValues(string(g.source.Variant()), outcome).Inc()
}

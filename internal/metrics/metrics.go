package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeRejected   = "auth_error"
	OutcomeUnassigned = "unassigned_role"
	OutcomeDiscarded  = "discarded"
	OutcomeError      = "error"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gate",
		Name:      "login_attempts_total",
		Help:      "Login submissions by identity source, credential kind and outcome.",
	}, []string{"source", "kind", "outcome"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gate",
		Name:      "registrations_total",
		Help:      "Signup submissions by identity source and outcome.",
	}, []string{"source", "outcome"})

	Dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gate",
		Name:      "dispatches_total",
		Help:      "Post-login navigations by role.",
	}, []string{"role"})

	SuppressedSubmits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gate",
		Name:      "suppressed_submits_total",
		Help:      "Duplicate submissions rejected while a call was in flight.",
	}, []string{"form"})

	RolesReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gate",
		Name:      "roles_reconciled_total",
		Help:      "Requested roles written to the role store after a role-blind signup.",
	}, []string{"outcome"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

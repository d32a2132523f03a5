package auth

// Kind tells how an identity was verified.
type Kind string

const (
	KindPassword  Kind = "password"
	KindFederated Kind = "federated"
)

// Identity is a verified principal returned by an identity source.
// It contains facts only, it is not yet bound to a role.
type Identity struct {
	SubjectID     string // stable, source-scoped user identifier (sub)
	Email         string
	DisplayName   string
	EmailVerified bool
	Kind          Kind
	Provider      string // issuing source, e.g. "app", "keycloak", "google"
}

// Result is what an identity source hands back after a successful
// authenticate or register call. Role is set only when the source is
// authoritative for roles.
type Result struct {
	Identity Identity
	Role     *Role
}

// SessionOutcome is the terminal artifact of a successful login. It is
// dispatched once and then discarded.
type SessionOutcome struct {
	Identity         Identity
	Role             Role
	DestinationRoute string

	dispatched bool
}

// MarkDispatched flags the outcome as consumed. It returns false if the
// outcome had already been dispatched.
func (o *SessionOutcome) MarkDispatched() bool {
	if o.dispatched {
		return false
	}
	o.dispatched = true
	return true
}

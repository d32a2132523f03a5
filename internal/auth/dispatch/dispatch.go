package dispatch

import (
	"errors"
	"fmt"

	"entry-gate/internal/auth"
)

// Inter-flow routes.
const (
	RouteLogin  = "/"
	RouteSignup = "/signup"
)

var routes = map[auth.Role]string{
	auth.RoleDonor:     "/donor",
	auth.RoleRecipient: "/recipient",
	auth.RoleVolunteer: "/volunteer",
	auth.RoleAdmin:     "/admin",
}

var ErrAlreadyDispatched = errors.New("dispatch: outcome already dispatched")

// Route returns the landing route for role. Passing a role outside the
// closed set is a programming error and panics.
func Route(role auth.Role) string {
	r, ok := routes[role]
	if !ok {
		panic(fmt.Sprintf("dispatch: no route for role %q", role))
	}
	return r
}

// RoleForRoute is the inverse of Route.
func RoleForRoute(path string) (auth.Role, bool) {
	for role, r := range routes {
		if r == path {
			return role, true
		}
	}
	return "", false
}

// Navigator performs the one-way navigation. The HTTP layer implements it
// with a redirect or a JSON body.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Dispatcher maps a resolved outcome to its route and navigates there once.
// It keeps no state of its own.
type Dispatcher struct{}

func (Dispatcher) Dispatch(nav Navigator, outcome *auth.SessionOutcome) error {
	if !outcome.MarkDispatched() {
		return ErrAlreadyDispatched
	}

	route := outcome.DestinationRoute
	if route == "" {
		route = Route(outcome.Role)
	}

	nav.Navigate(route)
	return nil
}

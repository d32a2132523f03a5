package dispatch

import (
	"errors"
	"testing"

	"entry-gate/internal/auth"
)

func TestRouteIsTotal(t *testing.T) {
	want := map[auth.Role]string{
		auth.RoleDonor:     "/donor",
		auth.RoleRecipient: "/recipient",
		auth.RoleVolunteer: "/volunteer",
		auth.RoleAdmin:     "/admin",
	}

	seen := map[string]bool{}
	for _, role := range auth.Roles() {
		got := Route(role)
		if got != want[role] {
			t.Fatalf("Route(%q) = %q, want %q", role, got, want[role])
		}
		if seen[got] {
			t.Fatalf("route %q assigned twice", got)
		}
		seen[got] = true

		back, ok := RoleForRoute(got)
		if !ok || back != role {
			t.Fatalf("RoleForRoute(%q) = %q, %v", got, back, ok)
		}
	}
}

func TestRoutePanicsOutsideSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown role")
		}
	}()
	Route("Owner")
}

func TestDispatchNavigatesOnce(t *testing.T) {
	var visits []string
	nav := NavigatorFunc(func(path string) { visits = append(visits, path) })

	outcome := &auth.SessionOutcome{Role: auth.RoleAdmin, DestinationRoute: Route(auth.RoleAdmin)}
	d := Dispatcher{}

	if err := d.Dispatch(nav, outcome); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if err := d.Dispatch(nav, outcome); !errors.Is(err, ErrAlreadyDispatched) {
		t.Fatalf("second dispatch: expected ErrAlreadyDispatched, got %v", err)
	}

	if len(visits) != 1 || visits[0] != "/admin" {
		t.Fatalf("visits = %v", visits)
	}
}

func TestDispatchDerivesRoute(t *testing.T) {
	var got string
	nav := NavigatorFunc(func(path string) { got = path })

	if err := (Dispatcher{}).Dispatch(nav, &auth.SessionOutcome{Role: auth.RoleVolunteer}); err != nil {
		t.Fatal(err)
	}
	if got != "/volunteer" {
		t.Fatalf("navigated to %q", got)
	}
}

package resolver

import (
	"context"
	"regexp"
	"testing"

	"entry-gate/internal/auth"
	"entry-gate/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*DBStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return NewDBStore(&db.DB{DB: sqlDB}), mock
}

func TestDBStoreLookup(t *testing.T) {
	store, mock := newMockStore(t)
	id := auth.Identity{Provider: "keycloak", SubjectID: "sub-1", Email: "bob@x.com"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM identity_roles")).
		WithArgs("keycloak", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("Recipient"))

	role, ok, err := store.Lookup(context.Background(), id)
	if err != nil || !ok || role != auth.RoleRecipient {
		t.Fatalf("Lookup = %q, %v, %v", role, ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDBStoreLookupMissing(t *testing.T) {
	store, mock := newMockStore(t)
	id := auth.Identity{Provider: "keycloak", SubjectID: "sub-9"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM identity_roles")).
		WithArgs("keycloak", "sub-9").
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	_, ok, err := store.Lookup(context.Background(), id)
	if err != nil || ok {
		t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
	}
}

func TestDBStoreAssign(t *testing.T) {
	store, mock := newMockStore(t)
	id := auth.Identity{Provider: "keycloak", SubjectID: "sub-1", Email: "bob@x.com"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO identity_roles")).
		WithArgs("keycloak", "sub-1", "bob@x.com", "Recipient").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Assign(context.Background(), id, auth.RoleRecipient); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDBStoreAssignIfAbsent(t *testing.T) {
	store, mock := newMockStore(t)
	id := auth.Identity{Provider: "google", SubjectID: "g-1", Email: "bob@x.com"}

	mock.ExpectExec(regexp.QuoteMeta("DO NOTHING")).
		WithArgs("google", "g-1", "bob@x.com", "Donor").
		WillReturnResult(sqlmock.NewResult(0, 0))

	wrote, err := store.AssignIfAbsent(context.Background(), id, auth.RoleDonor)
	if err != nil || wrote {
		t.Fatalf("AssignIfAbsent = %v, %v", wrote, err)
	}
}

func TestDBStoreRejectsInvalidInput(t *testing.T) {
	store, _ := newMockStore(t)

	if err := store.Assign(context.Background(), auth.Identity{Provider: "x"}, auth.RoleDonor); err == nil {
		t.Fatal("expected error for missing subject id")
	}
	if err := store.Assign(context.Background(), auth.Identity{Provider: "x", SubjectID: "s"}, "Owner"); err == nil {
		t.Fatal("expected error for out-of-set role")
	}
}

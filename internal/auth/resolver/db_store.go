package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entry-gate/internal/auth"
	"entry-gate/internal/db"
)

// DBStore keeps registration-time roles in Postgres so identity sources
// that know nothing about roles can still be routed by the user's choice.
type DBStore struct {
	db *db.DB
}

func NewDBStore(db *db.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Lookup(
	ctx context.Context,
	identity auth.Identity,
) (auth.Role, bool, error) {

	if identity.SubjectID == "" {
		return "", false, errors.New("resolver: identity has no subject id")
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT role
		FROM identity_roles
		WHERE provider = $1
		  AND subject_id = $2
	`,
		identity.Provider,
		identity.SubjectID,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	role, err := auth.ParseRole(raw)
	if err != nil {
		return "", false, fmt.Errorf("resolver: stored role: %w", err)
	}

	return role, true, nil
}

func (s *DBStore) Assign(
	ctx context.Context,
	identity auth.Identity,
	role auth.Role,
) error {

	if identity.SubjectID == "" {
		return errors.New("resolver: identity has no subject id")
	}
	if !role.Valid() {
		return fmt.Errorf("resolver: refusing to store role %q", role)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identity_roles (provider, subject_id, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, subject_id)
		DO UPDATE SET role = EXCLUDED.role, email = EXCLUDED.email, updated_at = NOW()
	`,
		identity.Provider,
		identity.SubjectID,
		identity.Email,
		string(role),
	)
	return err
}

func (s *DBStore) AssignIfAbsent(
	ctx context.Context,
	identity auth.Identity,
	role auth.Role,
) (bool, error) {

	if identity.SubjectID == "" {
		return false, errors.New("resolver: identity has no subject id")
	}
	if !role.Valid() {
		return false, fmt.Errorf("resolver: refusing to store role %q", role)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO identity_roles (provider, subject_id, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, subject_id) DO NOTHING
	`,
		identity.Provider,
		identity.SubjectID,
		identity.Email,
		string(role),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

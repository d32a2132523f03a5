package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"entry-gate/internal/auth"
	"entry-gate/internal/db"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("email already exists")
)

// Service is the first-party account store: it verifies passwords
// directly and owns the user's role.
type Service struct {
	db     *db.DB
	hasher Hasher
}

func NewService(db *db.DB, hasher Hasher) *Service {
	return &Service{db: db, hasher: hasher}
}

func (s *Service) Register(
	ctx context.Context,
	req auth.RegistrationRequest,
) (User, error) {

	if !req.RequestedRole.Valid() {
		return User{}, fmt.Errorf("credentials: invalid role %q", req.RequestedRole)
	}

	email := strings.TrimSpace(req.Email)

	// 1. Hash before touching the database
	hash, version, err := s.hasher.Hash(req.Password)
	if err != nil {
		return User{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback()

	// 2. Reject duplicates
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, ErrAlreadyRegistered
	}

	// 3. Create user with its role
	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`, strings.TrimSpace(req.Name), email, string(req.RequestedRole)).Scan(&userID)
	if err != nil {
		return User{}, err
	}

	// 4. Insert credentials
	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)
	if err != nil {
		return User{}, err
	}

	if err := tx.Commit(); err != nil {
		return User{}, err
	}

	return User{
		ID:    userID.String(),
		Name:  strings.TrimSpace(req.Name),
		Email: email,
		Role:  req.RequestedRole,
	}, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (User, error) {

	var (
		userID       uuid.UUID
		name         string
		storedEmail  string
		rawRole      string
		passwordHash string
	)

	// 1. Find user + credentials
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.role, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`, strings.TrimSpace(email)).Scan(&userID, &name, &storedEmail, &rawRole, &passwordHash)

	if errors.Is(err, sql.ErrNoRows) {
		// hide whether user exists or not
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	// 2. Verify password
	if err := s.hasher.Verify(passwordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}

	role, err := auth.ParseRole(rawRole)
	if err != nil {
		return User{}, fmt.Errorf("credentials: stored role: %w", err)
	}

	return User{
		ID:    userID.String(),
		Name:  name,
		Email: storedEmail,
		Role:  role,
	}, nil
}

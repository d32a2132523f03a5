package db

import (
	"context"
	"database/sql"
)

const gateMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL,
    email text NOT NULL,
    role text NOT NULL CHECK (role IN ('Donor', 'Recipient', 'Volunteer', 'Admin')),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS credentials (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id uuid NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    password_hash text NOT NULL,
    hash_version text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS identity_roles (
    provider text NOT NULL,
    subject_id text NOT NULL,
    email text NOT NULL,
    role text NOT NULL CHECK (role IN ('Donor', 'Recipient', 'Volunteer', 'Admin')),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (provider, subject_id)
);
`

// RunGateMigration creates the users, credentials and identity_roles tables.
// It is idempotent.
func RunGateMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, gateMigration)
	return err
}

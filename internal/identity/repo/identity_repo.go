package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vijay7733/roomgate/internal/identity/entity"
)

// ErrDuplicateEmail reports an insert that lost the race against another
// row with the same email. The table's citext UNIQUE constraint is the
// source of truth for email uniqueness.
var ErrDuplicateEmail = errors.New("email already registered")

// IdentityRepo provides data access for the identities table using sqlx.
type IdentityRepo struct {
	db *sqlx.DB
}

func NewIdentityRepo(db *sqlx.DB) *IdentityRepo { return &IdentityRepo{db: db} }

// EnsureTable creates the identities table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *IdentityRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS citext;
CREATE TABLE IF NOT EXISTS identities (
  id VARCHAR(32) PRIMARY KEY,
  role TEXT NOT NULL,
  name TEXT NOT NULL,
  email CITEXT UNIQUE NOT NULL,
  pin_hash TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'inactive',
  assigned_rooms TEXT[] NOT NULL DEFAULT '{}',
  invited_by TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_identities_email ON identities(email);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const identityColumns = `id, role, name, email, pin_hash, status, assigned_rooms, invited_by, created_at`

// Create inserts a new identity row.
func (r *IdentityRepo) Create(ctx context.Context, id *entity.Identity) error {
	const q = `INSERT INTO identities (id, role, name, email, pin_hash, status, assigned_rooms, invited_by)
		VALUES (:id, :role, :name, :email, :pin_hash, :status, :assigned_rooms, :invited_by)`
	if _, err := r.db.NamedExecContext(ctx, q, id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// GetByEmail returns the identity matched by email (case-insensitive due
// to citext) or sql.ErrNoRows.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var row entity.Identity
	q := `SELECT ` + identityColumns + ` FROM identities WHERE email=$1`
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetActiveByEmail returns the active identity for email or sql.ErrNoRows.
func (r *IdentityRepo) GetActiveByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var row entity.Identity
	q := `SELECT ` + identityColumns + ` FROM identities WHERE email=$1 AND status=$2`
	if err := r.db.GetContext(ctx, &row, q, email, entity.StatusActive); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetActiveByID returns the active identity for id or sql.ErrNoRows.
func (r *IdentityRepo) GetActiveByID(ctx context.Context, id string) (*entity.Identity, error) {
	var row entity.Identity
	q := `SELECT ` + identityColumns + ` FROM identities WHERE id=$1 AND status=$2`
	if err := r.db.GetContext(ctx, &row, q, id, entity.StatusActive); err != nil {
		return nil, err
	}
	return &row, nil
}

// Activate sets the PIN hash and flips status to active in one statement,
// guarded so it only ever fires for an invited identity that has not
// registered yet. Returns the number of rows changed (0 or 1).
func (r *IdentityRepo) Activate(ctx context.Context, email, pinHash string) (int64, error) {
	const q = `UPDATE identities SET pin_hash=$1, status=$2
		WHERE email=$3 AND status=$4 AND pin_hash=''`
	res, err := r.db.ExecContext(ctx, q, pinHash, entity.StatusActive, email, entity.StatusInactive)
	if err != nil {
		return 0, fmt.Errorf("activate identity: %w", err)
	}
	return res.RowsAffected()
}

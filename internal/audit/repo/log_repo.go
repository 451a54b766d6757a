package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vijay7733/roomgate/internal/audit/entity"
	"github.com/vijay7733/roomgate/pkg/utilities"
)

// LogRepo persists access decisions as an append-only audit log. There is
// deliberately no update or delete.
type LogRepo struct {
	db *sqlx.DB
}

func NewLogRepo(db *sqlx.DB) *LogRepo { return &LogRepo{db: db} }

// EnsureTable creates the access_logs table if not exists (idempotent).
func (r *LogRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS access_logs (
  id VARCHAR(32) PRIMARY KEY,
  manager_id TEXT NOT NULL,
  manager_name TEXT NOT NULL DEFAULT '',
  room_id TEXT NOT NULL,
  timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  status TEXT NOT NULL,
  reason TEXT NOT NULL,
  method TEXT NOT NULL DEFAULT '',
  origin TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_access_logs_manager_id ON access_logs(manager_id);
CREATE INDEX IF NOT EXISTS idx_access_logs_timestamp ON access_logs(timestamp);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Record appends one entry, assigning a snowflake id when the caller left
// it empty.
func (r *LogRepo) Record(ctx context.Context, e *entity.Entry) error {
	if e.ID == "" {
		e.ID = utilities.NewSnowflakeID()
	}
	const q = `INSERT INTO access_logs (id, manager_id, manager_name, room_id, timestamp, status, reason, method, origin)
		VALUES (:id, :manager_id, :manager_name, :room_id, :timestamp, :status, :reason, :method, :origin)`
	if _, err := r.db.NamedExecContext(ctx, q, e); err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries newest first. A non-empty
// managerID narrows the listing to that manager's own attempts.
func (r *LogRepo) ListRecent(ctx context.Context, managerID string, limit int) ([]*entity.Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows := []*entity.Entry{}
	if managerID != "" {
		const q = `SELECT id, manager_id, manager_name, room_id, timestamp, status, reason, method, origin
			FROM access_logs WHERE manager_id=$1 ORDER BY timestamp DESC LIMIT $2`
		if err := r.db.SelectContext(ctx, &rows, q, managerID, limit); err != nil {
			return nil, err
		}
		return rows, nil
	}
	const q = `SELECT id, manager_id, manager_name, room_id, timestamp, status, reason, method, origin
		FROM access_logs ORDER BY timestamp DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

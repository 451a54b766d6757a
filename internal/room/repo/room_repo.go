package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vijay7733/roomgate/internal/room/entity"
)

// RoomRepo provides data access for the rooms table using sqlx.
type RoomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) *RoomRepo { return &RoomRepo{db: db} }

// EnsureTable creates the rooms table if not exists (idempotent).
func (r *RoomRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS rooms (
  id VARCHAR(32) PRIMARY KEY,
  room_id TEXT UNIQUE NOT NULL,
  type TEXT NOT NULL,
  features TEXT[] NOT NULL DEFAULT '{}',
  status TEXT NOT NULL DEFAULT 'available'
);
CREATE INDEX IF NOT EXISTS idx_rooms_room_id ON rooms(room_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new room row.
func (r *RoomRepo) Create(ctx context.Context, rm *entity.Room) error {
	const q = `INSERT INTO rooms (id, room_id, type, features, status)
		VALUES (:id, :room_id, :type, :features, :status)`
	if _, err := r.db.NamedExecContext(ctx, q, rm); err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

// GetByRoomID returns the room with the given human-assigned identifier
// or sql.ErrNoRows.
func (r *RoomRepo) GetByRoomID(ctx context.Context, roomID string) (*entity.Room, error) {
	var row entity.Room
	const q = `SELECT id, room_id, type, features, status FROM rooms WHERE room_id=$1`
	if err := r.db.GetContext(ctx, &row, q, roomID); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all rooms ordered by room_id.
func (r *RoomRepo) List(ctx context.Context) ([]*entity.Room, error) {
	rows := []*entity.Room{}
	const q = `SELECT id, room_id, type, features, status FROM rooms ORDER BY room_id`
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

package entity

import "github.com/lib/pq"

// Status is informational only at the checkpoint; it never influences an
// access decision and is never exposed through one.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// Room represents a row in the `rooms` table. RoomID is the human-assigned
// identifier ("R101"); ID is the storage key. Immutable after creation.
type Room struct {
	ID       string         `db:"id" json:"-"`
	RoomID   string         `db:"room_id" json:"room_id"`
	Type     string         `db:"type" json:"type"`
	Features pq.StringArray `db:"features" json:"features"`
	// Status is serialized in the room listing only. Checkpoint responses
	// project through access.RoomInfo, which carries no status field.
	Status Status `db:"status" json:"status"`
}

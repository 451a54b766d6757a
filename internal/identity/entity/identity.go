package entity

import (
	"time"

	"github.com/lib/pq"
)

// Role is the closed set of principal roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleManager }

// Status is the identity lifecycle state. An identity is created inactive
// by an invitation and becomes active exactly once, when its PIN is set.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Identity represents a row in the `identities` table. Invariant: an
// active identity always has a non-empty PINHash, an inactive one never
// does; the two fields only ever change together.
type Identity struct {
	ID            string         `db:"id" json:"id"`
	Role          Role           `db:"role" json:"role"`
	Name          string         `db:"name" json:"name"`
	Email         string         `db:"email" json:"email"`
	PINHash       string         `db:"pin_hash" json:"-"`
	Status        Status         `db:"status" json:"status"`
	AssignedRooms pq.StringArray `db:"assigned_rooms" json:"assigned_rooms"`
	InvitedBy     *string        `db:"invited_by" json:"invited_by,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// HasRoom reports whether roomID is in the identity's assigned set.
func (i *Identity) HasRoom(roomID string) bool {
	for _, r := range i.AssignedRooms {
		if r == roomID {
			return true
		}
	}
	return false
}

package entity

import "time"

// Outcome of a single access attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
)

// Entry is one append-only row in the `access_logs` table. ManagerName is
// denormalized at write time so the log stays readable if identities are
// renamed later. Rows are never mutated or deleted.
type Entry struct {
	ID          string    `db:"id" json:"id"`
	ManagerID   string    `db:"manager_id" json:"manager_id"`
	ManagerName string    `db:"manager_name" json:"manager_name"`
	RoomID      string    `db:"room_id" json:"room_id"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Status      Outcome   `db:"status" json:"status"`
	Reason      string    `db:"reason" json:"reason"`
	Method      string    `db:"method" json:"method"`
	Origin      string    `db:"origin" json:"origin"`
}

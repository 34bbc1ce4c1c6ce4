package audit

import "time"

// Record maps to the audit_log table. One row per business mutation.
type Record struct {
	ID          int64     `db:"id" json:"id"`
	Entity      string    `db:"entity" json:"entity"`
	Action      string    `db:"action" json:"action"`
	OccurredAt  time.Time `db:"occurred_at" json:"occurred_at"`
	ActorID     *int64    `db:"actor_id" json:"actor_id,omitempty"`
	Description string    `db:"description" json:"description"`
}

// Actions recorded for business mutations.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Entry is what callers hand to a Recorder. The recorder fills in the
// timestamp and verifies the actor.
type Entry struct {
	Entity      string
	Action      string
	ActorID     *int64
	Description string
}

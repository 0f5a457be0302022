package models

import "time"

// Status is the lifecycle state of a verification request.
// Transitions are monotonic: pending may move to accepted or declined,
// terminal states never change again.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// VerificationRequest is one row of the verifications table. The quoted
// camelCase column names match the live schema.
type VerificationRequest struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user" json:"user_id"`
	ImageURL  string     `db:"image" json:"image_url"`
	Status    Status     `db:"status" json:"status"`
	ModID     *string    `db:"mod" json:"mod_id"`
	CreatedAt time.Time  `db:"createdAt" json:"created_at"`
	DoneAt    *time.Time `db:"doneAt" json:"done_at"`
	IsDone    bool       `db:"isDone" json:"is_done"`
}

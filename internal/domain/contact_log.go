package domain

import "time"

// ContactOutcome captures what a contact attempt achieved.
type ContactOutcome string

const (
	ContactOutcomeAttempted ContactOutcome = "ATTEMPTED"
	ContactOutcomeCompleted ContactOutcome = "COMPLETED"
)

// ContactLog is an immutable audit entry for a follow-up contact attempt.
type ContactLog struct {
	ID        string
	EventID   string
	WorkerID  string
	Outcome   ContactOutcome
	Note      string
	CreatedAt time.Time
}

package domain

import "time"

// FollowUpType enumerates the intervention windows the policy can schedule.
type FollowUpType string

const (
	FollowUpType24Hour FollowUpType = "24_HOUR"
	FollowUpType72Hour FollowUpType = "72_HOUR"
	FollowUpTypeWeekly FollowUpType = "WEEKLY"
)

// FollowUpPriority enumerates triage ordering tiers.
type FollowUpPriority string

const (
	FollowUpPriorityUrgent FollowUpPriority = "URGENT"
	FollowUpPriorityHigh   FollowUpPriority = "HIGH"
	FollowUpPriorityNormal FollowUpPriority = "NORMAL"
)

// Rank returns the sort position of the priority, urgent first. Unknown
// values sort last.
func (p FollowUpPriority) Rank() int {
	switch p {
	case FollowUpPriorityUrgent:
		return 0
	case FollowUpPriorityHigh:
		return 1
	case FollowUpPriorityNormal:
		return 2
	default:
		return 3
	}
}

// FollowUpStatus enumerates derived task states.
type FollowUpStatus string

const (
	FollowUpStatusPending   FollowUpStatus = "PENDING"
	FollowUpStatusOverdue   FollowUpStatus = "OVERDUE"
	FollowUpStatusCompleted FollowUpStatus = "COMPLETED"
)

// FollowUpTask is derived from a CrisisEvent on every evaluation pass and
// discarded afterwards. It shares the event's identity and is never persisted;
// in particular Status must not be stored or it goes stale.
type FollowUpTask struct {
	EventID          string
	UserID           string
	UserName         string
	RiskLevel        RiskLevel
	Type             FollowUpType
	DueAt            time.Time
	Priority         FollowUpPriority
	Status           FollowUpStatus
	AssignedWorkerID *string
	LastContactAt    *time.Time
	Notes            string
}

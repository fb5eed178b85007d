package dto

import (
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// FollowUpTaskResponse is one derived queue entry.
type FollowUpTaskResponse struct {
	EventID          string                  `json:"event_id"`
	UserID           string                  `json:"user_id"`
	UserName         string                  `json:"user_name"`
	RiskLevel        domain.RiskLevel        `json:"risk_level"`
	FollowUpType     domain.FollowUpType     `json:"follow_up_type"`
	DueAt            time.Time               `json:"due_at"`
	Priority         domain.FollowUpPriority `json:"priority"`
	Status           domain.FollowUpStatus   `json:"status"`
	AssignedWorkerID *string                 `json:"assigned_worker_id,omitempty"`
	LastContactAt    *time.Time              `json:"last_contact_at,omitempty"`
	Notes            string                  `json:"notes,omitempty"`
}

// DroppedEventResponse reports an event excluded from evaluation.
type DroppedEventResponse struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
}

// FollowUpQueueResponse is the full queue payload.
type FollowUpQueueResponse struct {
	Items        []FollowUpTaskResponse `json:"items"`
	DroppedCount int                    `json:"dropped_count"`
	Dropped      []DroppedEventResponse `json:"dropped,omitempty"`
	EvaluatedAt  time.Time              `json:"evaluated_at"`
}

// CaseActionRequest carries the note for contact/complete commands.
type CaseActionRequest struct {
	Note string `json:"note"`
}

package events

import (
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCrisisEventCreated EventType = "crisis_event_created"
	EventContactLogged      EventType = "contact_logged"
	EventFollowUpCompleted  EventType = "followup_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EventID   string      `json:"event_id"`
	WorkerID  *string     `json:"worker_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CrisisEventCreatedPayload payload.
type CrisisEventCreatedPayload struct {
	UserID    string           `json:"user_id"`
	RiskLevel domain.RiskLevel `json:"risk_level"`
	Keywords  []string         `json:"keywords,omitempty"`
}

// ContactLoggedPayload payload.
type ContactLoggedPayload struct {
	WorkerID    string `json:"worker_id"`
	NotePreview string `json:"note_preview"`
}

// FollowUpCompletedPayload payload.
type FollowUpCompletedPayload struct {
	WorkerID   string    `json:"worker_id"`
	ResolvedAt time.Time `json:"resolved_at"`
}

package dto

import (
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// CreateCrisisEventRequest payload. RiskLevel accepts free-form input; it is
// normalized at intake.
type CreateCrisisEventRequest struct {
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	RiskLevel string   `json:"risk_level"`
	Keywords  []string `json:"keywords"`
	Notes     string   `json:"notes"`
}

// CrisisEventResponse represents a stored event.
type CrisisEventResponse struct {
	ID               string                   `json:"id"`
	UserID           string                   `json:"user_id"`
	UserName         string                   `json:"user_name"`
	RiskLevel        domain.RiskLevel         `json:"risk_level"`
	Status           domain.CrisisEventStatus `json:"status"`
	Keywords         []string                 `json:"keywords,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	AssignedWorkerID *string                  `json:"assigned_worker_id,omitempty"`
	CreatedAt        *time.Time               `json:"created_at"`
	ResolvedAt       *time.Time               `json:"resolved_at,omitempty"`
	LastContactAt    *time.Time               `json:"last_contact_at,omitempty"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int64                    `json:"version"`
}

// ContactLogResponse represents one contact attempt.
type ContactLogResponse struct {
	ID        string                `json:"id"`
	WorkerID  string                `json:"worker_id"`
	Outcome   domain.ContactOutcome `json:"outcome"`
	Note      string                `json:"note,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

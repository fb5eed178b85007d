package domain

import (
	"strings"
	"time"
)

// RiskLevel classifies the severity of a crisis event.
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "CRITICAL"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelUnknown  RiskLevel = "UNKNOWN"
)

// NormalizeRiskLevel maps free-form input to the closed risk enum.
// Unrecognized or empty values become RiskLevelUnknown; normalization happens
// at the system boundary so the engine only ever sees enum members.
func NormalizeRiskLevel(raw string) RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RiskLevelCritical):
		return RiskLevelCritical
	case string(RiskLevelHigh):
		return RiskLevelHigh
	case string(RiskLevelMedium):
		return RiskLevelMedium
	case string(RiskLevelLow):
		return RiskLevelLow
	default:
		return RiskLevelUnknown
	}
}

// CrisisEventStatus enumerates lifecycle states for crisis events.
type CrisisEventStatus string

const (
	CrisisEventStatusPending  CrisisEventStatus = "PENDING"
	CrisisEventStatusResolved CrisisEventStatus = "RESOLVED"
)

// CrisisEvent is the source-of-truth record for an at-risk incident. It is
// owned by the event store; follow-up tasks are derived from it and never
// written back.
type CrisisEvent struct {
	ID               string
	UserID           string
	UserName         string
	RiskLevel        RiskLevel
	Status           CrisisEventStatus
	Keywords         []string
	Notes            string
	AssignedWorkerID *string
	CreatedAt        *time.Time
	ResolvedAt       *time.Time
	LastContactAt    *time.Time
	UpdatedAt        time.Time
	Version          int64
}

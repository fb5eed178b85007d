package triage

import (
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// ResolvePolicy maps a risk level to the follow-up window it mandates.
// Total over the enum: anything outside critical/high falls into the weekly
// tier, including unknown.
func ResolvePolicy(risk domain.RiskLevel) (domain.FollowUpType, time.Duration) {
	switch risk {
	case domain.RiskLevelCritical:
		return domain.FollowUpType24Hour, 24 * time.Hour
	case domain.RiskLevelHigh:
		return domain.FollowUpType72Hour, 72 * time.Hour
	default:
		return domain.FollowUpTypeWeekly, 7 * 24 * time.Hour
	}
}

// DueAt applies the policy offset to the event creation time. All arithmetic
// is done in UTC so creation and status comparison can never drift across
// zones; sub-day precision is preserved.
func DueAt(createdAt time.Time, offset time.Duration) time.Time {
	return createdAt.UTC().Add(offset)
}

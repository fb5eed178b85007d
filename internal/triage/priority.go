package triage

import "github.com/spec-kit/crisis-followup-service/internal/domain"

// RankPriority maps a risk level to its triage tier. Medium, low and unknown
// all land in the normal tier.
func RankPriority(risk domain.RiskLevel) domain.FollowUpPriority {
	switch risk {
	case domain.RiskLevelCritical:
		return domain.FollowUpPriorityUrgent
	case domain.RiskLevelHigh:
		return domain.FollowUpPriorityHigh
	default:
		return domain.FollowUpPriorityNormal
	}
}

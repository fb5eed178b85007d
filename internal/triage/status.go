package triage

import (
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// DeriveStatus computes the live state of a follow-up task against the
// supplied now. It is evaluated fresh on every pass and must never be stored.
//
// A resolved event is Completed regardless of due date. An unresolved event is
// Overdue only when now is strictly past dueAt AND no resolved-at timestamp is
// recorded: a set resolved-at means contact was already made and the lifecycle
// status is still catching up, so Overdue is suppressed. At now == dueAt the
// task is still Pending.
func DeriveStatus(lifecycle domain.CrisisEventStatus, resolvedAt *time.Time, dueAt, now time.Time) domain.FollowUpStatus {
	if lifecycle == domain.CrisisEventStatusResolved {
		return domain.FollowUpStatusCompleted
	}
	if resolvedAt == nil && now.After(dueAt) {
		return domain.FollowUpStatusOverdue
	}
	return domain.FollowUpStatusPending
}

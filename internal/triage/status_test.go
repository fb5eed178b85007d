package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	dueAt := createdAt.Add(24 * time.Hour)

	t.Run("resolved lifecycle is completed regardless of due date", func(t *testing.T) {
		resolvedAt := createdAt.Add(time.Hour)
		status := DeriveStatus(domain.CrisisEventStatusResolved, &resolvedAt, dueAt, createdAt.Add(240*time.Hour))
		assert.Equal(t, domain.FollowUpStatusCompleted, status)
	})

	t.Run("past due without resolved-at is overdue", func(t *testing.T) {
		status := DeriveStatus(domain.CrisisEventStatusPending, nil, dueAt, dueAt.Add(time.Hour))
		assert.Equal(t, domain.FollowUpStatusOverdue, status)
	})

	t.Run("before due date is pending", func(t *testing.T) {
		status := DeriveStatus(domain.CrisisEventStatusPending, nil, dueAt, dueAt.Add(-time.Minute))
		assert.Equal(t, domain.FollowUpStatusPending, status)
	})

	t.Run("now equal to due date is still pending", func(t *testing.T) {
		status := DeriveStatus(domain.CrisisEventStatusPending, nil, dueAt, dueAt)
		assert.Equal(t, domain.FollowUpStatusPending, status)
	})

	t.Run("resolved-at suppresses overdue while lifecycle is pending", func(t *testing.T) {
		// Contact already made, lifecycle status not yet synced.
		resolvedAt := createdAt.Add(2 * time.Hour)
		status := DeriveStatus(domain.CrisisEventStatusPending, &resolvedAt, dueAt, createdAt.Add(10*24*time.Hour))
		assert.Equal(t, domain.FollowUpStatusPending, status)
	})

	t.Run("critical event 25 hours after creation is overdue", func(t *testing.T) {
		followUpType, offset := ResolvePolicy(domain.RiskLevelCritical)
		due := DueAt(createdAt, offset)
		status := DeriveStatus(domain.CrisisEventStatusPending, nil, due, createdAt.Add(25*time.Hour))

		assert.Equal(t, domain.FollowUpType24Hour, followUpType)
		assert.Equal(t, domain.FollowUpStatusOverdue, status)
		assert.Equal(t, domain.FollowUpPriorityUrgent, RankPriority(domain.RiskLevelCritical))
	})

	t.Run("resolved high event ten days later is completed", func(t *testing.T) {
		resolvedAt := createdAt.Add(time.Hour)
		_, offset := ResolvePolicy(domain.RiskLevelHigh)
		due := DueAt(createdAt, offset)
		status := DeriveStatus(domain.CrisisEventStatusResolved, &resolvedAt, due, createdAt.Add(10*24*time.Hour))
		assert.Equal(t, domain.FollowUpStatusCompleted, status)
	})
}

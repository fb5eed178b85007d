package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

func makeEvent(id, userID, userName string, risk domain.RiskLevel, createdAt *time.Time) domain.CrisisEvent {
	return domain.CrisisEvent{
		ID:        id,
		UserID:    userID,
		UserName:  userName,
		RiskLevel: risk,
		Status:    domain.CrisisEventStatusPending,
		CreatedAt: createdAt,
	}
}

func ts(t time.Time) *time.Time {
	return &t
}

func TestEvaluateDerivation(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("derives one task per valid event", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("e1", "u1", "Alice", domain.RiskLevelCritical, ts(base)),
			makeEvent("e2", "u2", "Bob", domain.RiskLevelHigh, ts(base)),
		}
		result := Evaluate(events, base.Add(time.Hour), FilterSpec{}, SortByDueDate)

		require.Len(t, result.Tasks, 2)
		assert.Zero(t, result.DroppedCount())
		assert.Equal(t, "e1", result.Tasks[0].EventID)
		assert.Equal(t, base.Add(24*time.Hour), result.Tasks[0].DueAt)
		assert.Equal(t, base.Add(72*time.Hour), result.Tasks[1].DueAt)
	})

	t.Run("drops events missing created-at with a reason", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("e1", "u1", "Alice", domain.RiskLevelCritical, ts(base)),
			makeEvent("e2", "u2", "Bob", domain.RiskLevelHigh, nil),
		}
		result := Evaluate(events, base, FilterSpec{}, SortByDueDate)

		require.Len(t, result.Tasks, 1)
		require.Equal(t, 1, result.DroppedCount())
		assert.Equal(t, "e2", result.Dropped[0].EventID)
		assert.NotEmpty(t, result.Dropped[0].Reason)
	})

	t.Run("missing risk level falls back to unknown weekly normal", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("e1", "u1", "Alice", "", ts(base)),
		}
		result := Evaluate(events, base, FilterSpec{}, SortByDueDate)

		require.Len(t, result.Tasks, 1)
		assert.Equal(t, domain.RiskLevelUnknown, result.Tasks[0].RiskLevel)
		assert.Equal(t, domain.FollowUpTypeWeekly, result.Tasks[0].Type)
		assert.Equal(t, domain.FollowUpPriorityNormal, result.Tasks[0].Priority)
	})

	t.Run("idempotent for identical inputs and now", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("e1", "u1", "Alice", domain.RiskLevelCritical, ts(base)),
			makeEvent("e2", "u2", "Bob", domain.RiskLevelLow, ts(base.Add(-time.Hour))),
		}
		now := base.Add(30 * time.Hour)
		first := Evaluate(events, now, FilterSpec{}, SortByPriority)
		second := Evaluate(events, now, FilterSpec{}, SortByPriority)
		assert.Equal(t, first, second)
	})

	t.Run("no task is simultaneously overdue and completed", func(t *testing.T) {
		resolvedAt := base.Add(time.Hour)
		resolved := makeEvent("e1", "u1", "Alice", domain.RiskLevelCritical, ts(base))
		resolved.Status = domain.CrisisEventStatusResolved
		resolved.ResolvedAt = &resolvedAt

		result := Evaluate([]domain.CrisisEvent{resolved}, base.Add(100*time.Hour), FilterSpec{}, SortByDueDate)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, domain.FollowUpStatusCompleted, result.Tasks[0].Status)
	})
}

func TestEvaluateFilters(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []domain.CrisisEvent{
		makeEvent("e1", "u1", "Alice Martin", domain.RiskLevelCritical, ts(base)),
		makeEvent("e2", "u2", "Bob Chen", domain.RiskLevelHigh, ts(base)),
		makeEvent("e3", "u3", "Carol Diaz", domain.RiskLevelLow, ts(base)),
	}

	t.Run("search matches user name case-insensitively", func(t *testing.T) {
		result := Evaluate(events, base, FilterSpec{Search: "alice"}, SortByDueDate)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, "e1", result.Tasks[0].EventID)
	})

	t.Run("search matches user id", func(t *testing.T) {
		result := Evaluate(events, base, FilterSpec{Search: "U2"}, SortByDueDate)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, "e2", result.Tasks[0].EventID)
	})

	t.Run("status filter narrows to overdue", func(t *testing.T) {
		// Only the critical event's 24h window has elapsed at +30h.
		result := Evaluate(events, base.Add(30*time.Hour), FilterSpec{Status: StatusFilterOverdue}, SortByDueDate)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, "e1", result.Tasks[0].EventID)
	})

	t.Run("priority filter narrows to urgent", func(t *testing.T) {
		result := Evaluate(events, base, FilterSpec{Priority: PriorityFilterUrgent}, SortByDueDate)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, "e1", result.Tasks[0].EventID)
	})

	t.Run("all filters pass everything through", func(t *testing.T) {
		result := Evaluate(events, base, FilterSpec{Status: StatusFilterAll, Priority: PriorityFilterAll}, SortByDueDate)
		assert.Len(t, result.Tasks, 3)
	})
}

func TestEvaluateSorting(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("due date sort is non-decreasing", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("e1", "u1", "Alice", domain.RiskLevelLow, ts(base)),
			makeEvent("e2", "u2", "Bob", domain.RiskLevelCritical, ts(base)),
			makeEvent("e3", "u3", "Carol", domain.RiskLevelHigh, ts(base)),
		}
		result := Evaluate(events, base, FilterSpec{}, SortByDueDate)

		require.Len(t, result.Tasks, 3)
		for i := 1; i < len(result.Tasks); i++ {
			assert.False(t, result.Tasks[i].DueAt.Before(result.Tasks[i-1].DueAt))
		}
		assert.Equal(t, "e2", result.Tasks[0].EventID)
	})

	t.Run("priority sort ranks critical first despite later creation", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("e-low", "u1", "Alice", domain.RiskLevelLow, ts(base.Add(-24*time.Hour))),
			makeEvent("e-crit", "u2", "Bob", domain.RiskLevelCritical, ts(base)),
		}
		result := Evaluate(events, base, FilterSpec{}, SortByPriority)

		require.Len(t, result.Tasks, 2)
		assert.Equal(t, "e-crit", result.Tasks[0].EventID)
		assert.Equal(t, "e-low", result.Tasks[1].EventID)
	})

	t.Run("priority sort keeps stable order within a tier", func(t *testing.T) {
		events := []domain.CrisisEvent{
			makeEvent("n1", "u1", "Alice", domain.RiskLevelMedium, ts(base)),
			makeEvent("n2", "u2", "Bob", domain.RiskLevelLow, ts(base.Add(time.Minute))),
			makeEvent("n3", "u3", "Carol", domain.RiskLevelMedium, ts(base.Add(2*time.Minute))),
			makeEvent("u1-crit", "u4", "Dave", domain.RiskLevelCritical, ts(base.Add(3*time.Minute))),
		}
		result := Evaluate(events, base, FilterSpec{}, SortByPriority)

		require.Len(t, result.Tasks, 4)
		assert.Equal(t, "u1-crit", result.Tasks[0].EventID)
		assert.Equal(t, []string{"n1", "n2", "n3"}, []string{
			result.Tasks[1].EventID, result.Tasks[2].EventID, result.Tasks[3].EventID,
		})
	})
}

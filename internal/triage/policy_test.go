package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

func TestResolvePolicy(t *testing.T) {
	t.Run("critical maps to 24 hour follow-up", func(t *testing.T) {
		followUpType, offset := ResolvePolicy(domain.RiskLevelCritical)
		assert.Equal(t, domain.FollowUpType24Hour, followUpType)
		assert.Equal(t, 24*time.Hour, offset)
	})

	t.Run("high maps to 72 hour follow-up", func(t *testing.T) {
		followUpType, offset := ResolvePolicy(domain.RiskLevelHigh)
		assert.Equal(t, domain.FollowUpType72Hour, followUpType)
		assert.Equal(t, 72*time.Hour, offset)
	})

	t.Run("medium low and unknown map to weekly", func(t *testing.T) {
		for _, risk := range []domain.RiskLevel{domain.RiskLevelMedium, domain.RiskLevelLow, domain.RiskLevelUnknown} {
			followUpType, offset := ResolvePolicy(risk)
			assert.Equal(t, domain.FollowUpTypeWeekly, followUpType, "risk %s", risk)
			assert.Equal(t, 7*24*time.Hour, offset, "risk %s", risk)
		}
	})

	t.Run("unrecognized value falls back to weekly", func(t *testing.T) {
		followUpType, offset := ResolvePolicy(domain.RiskLevel("SEVERE"))
		assert.Equal(t, domain.FollowUpTypeWeekly, followUpType)
		assert.Equal(t, 7*24*time.Hour, offset)
	})
}

func TestDueAt(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 14, 30, 45, 0, time.UTC)

	t.Run("applies offset without truncation", func(t *testing.T) {
		dueAt := DueAt(createdAt, 24*time.Hour)
		assert.Equal(t, createdAt.Add(24*time.Hour), dueAt)
		assert.Equal(t, 30, dueAt.Minute())
		assert.Equal(t, 45, dueAt.Second())
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		zone := time.FixedZone("UTC+5", 5*3600)
		local := createdAt.In(zone)
		dueAt := DueAt(local, 72*time.Hour)
		assert.Equal(t, time.UTC, dueAt.Location())
		assert.True(t, dueAt.Equal(createdAt.Add(72*time.Hour)))
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		assert.Equal(t, DueAt(createdAt, 24*time.Hour), DueAt(createdAt, 24*time.Hour))
	})
}

func TestRankPriority(t *testing.T) {
	t.Run("maps risk to tier", func(t *testing.T) {
		assert.Equal(t, domain.FollowUpPriorityUrgent, RankPriority(domain.RiskLevelCritical))
		assert.Equal(t, domain.FollowUpPriorityHigh, RankPriority(domain.RiskLevelHigh))
		assert.Equal(t, domain.FollowUpPriorityNormal, RankPriority(domain.RiskLevelMedium))
		assert.Equal(t, domain.FollowUpPriorityNormal, RankPriority(domain.RiskLevelLow))
		assert.Equal(t, domain.FollowUpPriorityNormal, RankPriority(domain.RiskLevelUnknown))
	})

	t.Run("rank orders urgent before high before normal", func(t *testing.T) {
		assert.Less(t, domain.FollowUpPriorityUrgent.Rank(), domain.FollowUpPriorityHigh.Rank())
		assert.Less(t, domain.FollowUpPriorityHigh.Rank(), domain.FollowUpPriorityNormal.Rank())
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/repository"
	"github.com/spec-kit/crisis-followup-service/internal/triage"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// stubEventStore implements both ports in memory.
type stubEventStore struct {
	events    map[string]domain.CrisisEvent
	fetchErr  error
	updateErr error
}

func newStubEventStore(events ...domain.CrisisEvent) *stubEventStore {
	store := &stubEventStore{events: make(map[string]domain.CrisisEvent)}
	for _, ev := range events {
		store.events[ev.ID] = ev
	}
	return store
}

func (s *stubEventStore) FetchAll(_ context.Context) ([]domain.CrisisEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	result := make([]domain.CrisisEvent, 0, len(s.events))
	for _, ev := range s.events {
		result = append(result, ev)
	}
	return result, nil
}

func (s *stubEventStore) GetByID(_ context.Context, id string) (*domain.CrisisEvent, error) {
	ev, ok := s.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ev
	return &copied, nil
}

func (s *stubEventStore) Update(_ context.Context, event *domain.CrisisEvent) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	event.Version++
	s.events[event.ID] = *event
	return nil
}

type stubContactLogRepo struct {
	entries []domain.ContactLog
}

func (r *stubContactLogRepo) Create(_ context.Context, log *domain.ContactLog) error {
	log.ID = "log-1"
	log.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *log)
	return nil
}

func (r *stubContactLogRepo) ListByEvent(_ context.Context, eventID string, _, _ int) ([]domain.ContactLog, error) {
	var result []domain.ContactLog
	for _, entry := range r.entries {
		if entry.EventID == eventID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func pendingEvent(id string, createdAt time.Time) domain.CrisisEvent {
	created := createdAt
	return domain.CrisisEvent{
		ID:        id,
		UserID:    "user-1",
		UserName:  "Alice Martin",
		RiskLevel: domain.RiskLevelCritical,
		Status:    domain.CrisisEventStatusPending,
		CreatedAt: &created,
		Version:   1,
	}
}

func TestFollowUpServiceQueue(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("evaluates against injected clock", func(t *testing.T) {
		store := newStubEventStore(pendingEvent("e1", base))
		svc := NewFollowUpService(FollowUpDependencies{
			Source: store,
			Store:  store,
			Clock:  fixedClock(base.Add(25 * time.Hour)),
		})

		result, err := svc.Queue(context.Background(), triage.FilterSpec{}, triage.SortByDueDate)
		require.NoError(t, err)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, domain.FollowUpStatusOverdue, result.Tasks[0].Status)
	})

	t.Run("fetch failure surfaces as source unavailable", func(t *testing.T) {
		cause := errors.New("connection refused")
		store := newStubEventStore()
		store.fetchErr = cause
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store})

		_, err := svc.Queue(context.Background(), triage.FilterSpec{}, triage.SortByDueDate)
		require.Error(t, err)
		assert.Equal(t, "SOURCE_UNAVAILABLE", apperrors.ToDomainError(err).Code)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("empty source yields empty queue without error", func(t *testing.T) {
		store := newStubEventStore()
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store})

		result, err := svc.Queue(context.Background(), triage.FilterSpec{}, triage.SortByDueDate)
		require.NoError(t, err)
		assert.Empty(t, result.Tasks)
	})
}

func TestCompleteFollowUp(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base.Add(26 * time.Hour)

	t.Run("resolves the event and records the contact", func(t *testing.T) {
		store := newStubEventStore(pendingEvent("e1", base))
		contacts := &stubContactLogRepo{}
		svc := NewFollowUpService(FollowUpDependencies{
			Source:         store,
			Store:          store,
			ContactLogRepo: contacts,
			Clock:          fixedClock(now),
		})

		event, err := svc.CompleteFollowUp(context.Background(), "worker-1", "e1", "reached by phone")
		require.NoError(t, err)
		assert.Equal(t, domain.CrisisEventStatusResolved, event.Status)
		require.NotNil(t, event.ResolvedAt)
		assert.True(t, event.ResolvedAt.Equal(now))
		assert.Contains(t, event.Notes, "reached by phone")

		require.Len(t, contacts.entries, 1)
		assert.Equal(t, domain.ContactOutcomeCompleted, contacts.entries[0].Outcome)
		assert.Equal(t, "worker-1", contacts.entries[0].WorkerID)
	})

	t.Run("completing twice returns already completed", func(t *testing.T) {
		store := newStubEventStore(pendingEvent("e1", base))
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store, Clock: fixedClock(now)})

		first, err := svc.CompleteFollowUp(context.Background(), "worker-1", "e1", "done")
		require.NoError(t, err)
		firstResolvedAt := *first.ResolvedAt

		_, err = svc.CompleteFollowUp(context.Background(), "worker-2", "e1", "done again")
		require.Error(t, err)
		assert.Equal(t, "ALREADY_COMPLETED", apperrors.ToDomainError(err).Code)

		// resolved-at must not have been overwritten
		stored, getErr := store.GetByID(context.Background(), "e1")
		require.NoError(t, getErr)
		assert.True(t, stored.ResolvedAt.Equal(firstResolvedAt))
	})

	t.Run("version conflict maps to concurrent modification", func(t *testing.T) {
		store := newStubEventStore(pendingEvent("e1", base))
		store.updateErr = repository.ErrVersionConflict
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store, Clock: fixedClock(now)})

		_, err := svc.CompleteFollowUp(context.Background(), "worker-1", "e1", "done")
		require.Error(t, err)
		assert.Equal(t, "CONCURRENT_MODIFICATION", apperrors.ToDomainError(err).Code)
	})

	t.Run("unknown event returns not found", func(t *testing.T) {
		store := newStubEventStore()
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store})

		_, err := svc.CompleteFollowUp(context.Background(), "worker-1", "missing", "done")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	})
}

func TestLogContact(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base.Add(3 * time.Hour)

	t.Run("stamps last contact without resolving", func(t *testing.T) {
		store := newStubEventStore(pendingEvent("e1", base))
		contacts := &stubContactLogRepo{}
		svc := NewFollowUpService(FollowUpDependencies{
			Source:         store,
			Store:          store,
			ContactLogRepo: contacts,
			Clock:          fixedClock(now),
		})

		event, err := svc.LogContact(context.Background(), "worker-1", "e1", "left voicemail")
		require.NoError(t, err)
		assert.Equal(t, domain.CrisisEventStatusPending, event.Status)
		assert.Nil(t, event.ResolvedAt)
		require.NotNil(t, event.LastContactAt)
		assert.True(t, event.LastContactAt.Equal(now))
		assert.Contains(t, event.Notes, "left voicemail")

		require.Len(t, contacts.entries, 1)
		assert.Equal(t, domain.ContactOutcomeAttempted, contacts.entries[0].Outcome)
	})

	t.Run("appends notes to existing ones", func(t *testing.T) {
		event := pendingEvent("e1", base)
		event.Notes = "initial intake note"
		store := newStubEventStore(event)
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store, Clock: fixedClock(now)})

		updated, err := svc.LogContact(context.Background(), "worker-1", "e1", "second attempt")
		require.NoError(t, err)
		assert.Equal(t, "initial intake note\nsecond attempt", updated.Notes)
	})

	t.Run("subsequent queue reflects the command", func(t *testing.T) {
		store := newStubEventStore(pendingEvent("e1", base))
		svc := NewFollowUpService(FollowUpDependencies{Source: store, Store: store, Clock: fixedClock(base.Add(48 * time.Hour))})

		before, err := svc.Queue(context.Background(), triage.FilterSpec{}, triage.SortByDueDate)
		require.NoError(t, err)
		require.Len(t, before.Tasks, 1)
		assert.Equal(t, domain.FollowUpStatusOverdue, before.Tasks[0].Status)

		_, err = svc.CompleteFollowUp(context.Background(), "worker-1", "e1", "resolved")
		require.NoError(t, err)

		after, err := svc.Queue(context.Background(), triage.FilterSpec{}, triage.SortByDueDate)
		require.NoError(t, err)
		require.Len(t, after.Tasks, 1)
		assert.Equal(t, domain.FollowUpStatusCompleted, after.Tasks[0].Status)
	})
}

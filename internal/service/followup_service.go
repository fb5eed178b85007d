package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/events"
	"github.com/spec-kit/crisis-followup-service/internal/repository"
	"github.com/spec-kit/crisis-followup-service/internal/triage"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// CrisisEventSource is the engine's read port.
type CrisisEventSource interface {
	FetchAll(ctx context.Context) ([]domain.CrisisEvent, error)
}

// CrisisEventStore is the engine's write port. Update must enforce an
// optimistic version check and return repository.ErrVersionConflict on a race.
type CrisisEventStore interface {
	GetByID(ctx context.Context, id string) (*domain.CrisisEvent, error)
	Update(ctx context.Context, event *domain.CrisisEvent) error
}

// FollowUpService evaluates the follow-up queue and executes case-worker
// commands. The derivation itself lives in the triage package and is pure;
// this service owns the I/O boundary, the clock, and command serialization.
type FollowUpService struct {
	source     CrisisEventSource
	store      CrisisEventStore
	contacts   repository.ContactLogRepository
	dispatcher events.Dispatcher
	now        func() time.Time
	locks      entityLocks
}

// FollowUpDependencies bundles collaborators for the service.
type FollowUpDependencies struct {
	Source         CrisisEventSource
	Store          CrisisEventStore
	ContactLogRepo repository.ContactLogRepository
	Dispatcher     events.Dispatcher
	Clock          func() time.Time
}

// NewFollowUpService constructs the service. A nil Clock defaults to UTC
// wall-clock time.
func NewFollowUpService(deps FollowUpDependencies) *FollowUpService {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &FollowUpService{
		source:     deps.Source,
		store:      deps.Store,
		contacts:   deps.ContactLogRepo,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// Queue fetches the full event set and evaluates it against the current
// clock. Fetch failures surface as a distinct SOURCE_UNAVAILABLE error, never
// as an empty queue. Repeated calls with unchanged data and clock produce
// identical results.
func (s *FollowUpService) Queue(ctx context.Context, filter triage.FilterSpec, mode triage.SortMode) (triage.Result, error) {
	crisisEvents, err := s.source.FetchAll(ctx)
	if err != nil {
		return triage.Result{}, apperrors.NewSourceUnavailable(err)
	}
	return triage.Evaluate(crisisEvents, s.now(), filter, mode), nil
}

// LogContact records a contact attempt against the event. It appends the note
// and stamps last-contact, but never touches lifecycle status or resolved-at.
func (s *FollowUpService) LogContact(ctx context.Context, workerID, eventID, note string) (*domain.CrisisEvent, error) {
	unlock := s.locks.acquire(eventID)
	defer unlock()

	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("crisis event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	event.LastContactAt = &now
	event.Notes = appendNote(event.Notes, note)

	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	if err := s.recordContact(ctx, event.ID, workerID, domain.ContactOutcomeAttempted, note); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventContactLogged,
		EventID:  event.ID,
		WorkerID: &workerID,
		Payload: events.ContactLoggedPayload{
			WorkerID:    workerID,
			NotePreview: notePreview(note, 120),
		},
	})
	return event, nil
}

// CompleteFollowUp resolves the underlying event: lifecycle becomes resolved,
// resolved-at is set to now, and the note is appended. Completing an already
// resolved event returns ALREADY_COMPLETED instead of overwriting resolved-at.
func (s *FollowUpService) CompleteFollowUp(ctx context.Context, workerID, eventID, note string) (*domain.CrisisEvent, error) {
	unlock := s.locks.acquire(eventID)
	defer unlock()

	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("crisis event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if event.Status == domain.CrisisEventStatusResolved {
		return nil, apperrors.NewAlreadyCompleted(eventID)
	}

	now := s.now()
	event.Status = domain.CrisisEventStatusResolved
	event.ResolvedAt = &now
	event.LastContactAt = &now
	event.Notes = appendNote(event.Notes, note)

	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	if err := s.recordContact(ctx, event.ID, workerID, domain.ContactOutcomeCompleted, note); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventFollowUpCompleted,
		EventID:  event.ID,
		WorkerID: &workerID,
		Payload: events.FollowUpCompletedPayload{
			WorkerID:   workerID,
			ResolvedAt: now,
		},
	})
	return event, nil
}

// ContactHistory lists the audit trail of contact attempts for an event.
func (s *FollowUpService) ContactHistory(ctx context.Context, eventID string, limit, offset int) ([]domain.ContactLog, error) {
	if s.contacts == nil {
		return []domain.ContactLog{}, nil
	}
	logs, err := s.contacts.ListByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return logs, nil
}

func (s *FollowUpService) persist(ctx context.Context, event *domain.CrisisEvent) error {
	if err := s.store.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConcurrentModification(event.ID)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("crisis event", map[string]any{"event_id": event.ID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *FollowUpService) recordContact(ctx context.Context, eventID, workerID string, outcome domain.ContactOutcome, note string) error {
	if s.contacts == nil {
		return nil
	}
	entry := &domain.ContactLog{
		EventID:  eventID,
		WorkerID: workerID,
		Outcome:  outcome,
		Note:     strings.TrimSpace(note),
	}
	return s.contacts.Create(ctx, entry)
}

func (s *FollowUpService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func appendNote(existing, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

func notePreview(note string, max int) string {
	note = strings.TrimSpace(note)
	if len(note) <= max {
		return note
	}
	if max <= 3 {
		return note[:max]
	}
	return note[:max-3] + "..."
}

// entityLocks serializes commands per event id so two workers racing on the
// same task are ordered before the version check runs.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *entityLocks) acquire(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/events"
	"github.com/spec-kit/crisis-followup-service/internal/repository"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// IntakeService records incoming crisis events. Risk levels are normalized to
// the closed enum here, at the boundary, so the triage engine never sees
// free-form strings.
type IntakeService struct {
	crisisEvents repository.CrisisEventRepository
	dispatcher   events.Dispatcher
	now          func() time.Time
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	CrisisEventRepo repository.CrisisEventRepository
	Dispatcher      events.Dispatcher
	Clock           func() time.Time
}

// CrisisEventInput describes an incoming crisis report.
type CrisisEventInput struct {
	UserID           string
	UserName         string
	RiskLevel        string
	Keywords         []string
	Notes            string
	AssignedWorkerID *string
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &IntakeService{
		crisisEvents: deps.CrisisEventRepo,
		dispatcher:   deps.Dispatcher,
		now:          clock,
	}
}

// RecordCrisisEvent stores a new pending crisis event.
func (s *IntakeService) RecordCrisisEvent(ctx context.Context, input CrisisEventInput) (*domain.CrisisEvent, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, apperrors.NewValidationError("user_id required", nil)
	}

	createdAt := s.now()
	event := &domain.CrisisEvent{
		UserID:           strings.TrimSpace(input.UserID),
		UserName:         strings.TrimSpace(input.UserName),
		RiskLevel:        domain.NormalizeRiskLevel(input.RiskLevel),
		Status:           domain.CrisisEventStatusPending,
		Keywords:         input.Keywords,
		Notes:            strings.TrimSpace(input.Notes),
		AssignedWorkerID: input.AssignedWorkerID,
		CreatedAt:        &createdAt,
	}

	if err := s.crisisEvents.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCrisisEventCreated,
			EventID:   event.ID,
			Timestamp: createdAt,
			Payload: events.CrisisEventCreatedPayload{
				UserID:    event.UserID,
				RiskLevel: event.RiskLevel,
				Keywords:  event.Keywords,
			},
		})
	}
	return event, nil
}

// GetCrisisEvent fetches a single event by id.
func (s *IntakeService) GetCrisisEvent(ctx context.Context, id string) (*domain.CrisisEvent, error) {
	event, err := s.crisisEvents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("crisis event", map[string]any{"event_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// ListCrisisEvents returns paginated events matching the filter.
func (s *IntakeService) ListCrisisEvents(ctx context.Context, filter repository.CrisisEventFilter) ([]domain.CrisisEvent, error) {
	result, err := s.crisisEvents.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

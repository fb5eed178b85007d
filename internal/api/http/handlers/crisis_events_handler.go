package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-followup-service/internal/api/dto"
	"github.com/spec-kit/crisis-followup-service/internal/auth"
	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/repository"
	"github.com/spec-kit/crisis-followup-service/internal/service"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// CrisisEventsHandler manages crisis event intake and listing.
type CrisisEventsHandler struct {
	service *service.IntakeService
}

// NewCrisisEventsHandler constructs handler.
func NewCrisisEventsHandler(intakeService *service.IntakeService) *CrisisEventsHandler {
	return &CrisisEventsHandler{service: intakeService}
}

// Create POST /crisis-events.
func (h *CrisisEventsHandler) Create(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("worker required")
	}
	var req dto.CreateCrisisEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}

	event, err := h.service.RecordCrisisEvent(c.Context(), service.CrisisEventInput{
		UserID:    req.UserID,
		UserName:  req.UserName,
		RiskLevel: req.RiskLevel,
		Keywords:  req.Keywords,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": crisisEventResponse(event)})
}

// List GET /crisis-events.
func (h *CrisisEventsHandler) List(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("worker required")
	}
	filter := repository.CrisisEventFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.CrisisEventStatus{domain.CrisisEventStatus(strings.ToUpper(status))}
	}
	if risk := c.Query("risk_level"); risk != "" {
		filter.RiskLevels = []domain.RiskLevel{domain.NormalizeRiskLevel(risk)}
	}

	result, err := h.service.ListCrisisEvents(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.CrisisEventResponse, 0, len(result))
	for i := range result {
		items = append(items, crisisEventResponse(&result[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /crisis-events/:id.
func (h *CrisisEventsHandler) Get(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("worker required")
	}
	event, err := h.service.GetCrisisEvent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": crisisEventResponse(event)})
}

func crisisEventResponse(event *domain.CrisisEvent) dto.CrisisEventResponse {
	return dto.CrisisEventResponse{
		ID:               event.ID,
		UserID:           event.UserID,
		UserName:         event.UserName,
		RiskLevel:        event.RiskLevel,
		Status:           event.Status,
		Keywords:         event.Keywords,
		Notes:            event.Notes,
		AssignedWorkerID: event.AssignedWorkerID,
		CreatedAt:        event.CreatedAt,
		ResolvedAt:       event.ResolvedAt,
		LastContactAt:    event.LastContactAt,
		UpdatedAt:        event.UpdatedAt,
		Version:          event.Version,
	}
}

package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-followup-service/internal/api/dto"
	"github.com/spec-kit/crisis-followup-service/internal/auth"
	"github.com/spec-kit/crisis-followup-service/internal/cache"
	"github.com/spec-kit/crisis-followup-service/internal/observability"
	"github.com/spec-kit/crisis-followup-service/internal/service"
	"github.com/spec-kit/crisis-followup-service/internal/triage"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// FollowUpsHandler exposes the triage queue and case-worker commands.
type FollowUpsHandler struct {
	service *service.FollowUpService
	cache   *cache.QueueCache
	metrics *observability.Metrics
}

// NewFollowUpsHandler constructs handler.
func NewFollowUpsHandler(followUpService *service.FollowUpService, queueCache *cache.QueueCache, metrics *observability.Metrics) *FollowUpsHandler {
	return &FollowUpsHandler{service: followUpService, cache: queueCache, metrics: metrics}
}

// GetQueue GET /followups.
func (h *FollowUpsHandler) GetQueue(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("worker required")
	}

	filter := triage.FilterSpec{
		Search:   c.Query("search"),
		Status:   triage.StatusFilter(strings.ToUpper(c.Query("status", string(triage.StatusFilterAll)))),
		Priority: triage.PriorityFilter(strings.ToUpper(c.Query("priority", string(triage.PriorityFilterAll)))),
	}
	mode := triage.SortByDueDate
	if strings.EqualFold(c.Query("sort"), "priority") {
		mode = triage.SortByPriority
	}

	key := cache.Key(filter, mode)
	if payload, ok := h.cache.Get(c.Context(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(payload)
	}

	result, err := h.service.Queue(c.Context(), filter, mode)
	if err != nil {
		return err
	}
	h.metrics.RecordDroppedEvents(result.DroppedCount())

	payload, err := json.Marshal(fiber.Map{"data": queueResponse(result)})
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	h.cache.Set(c.Context(), key, payload)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// LogContact POST /followups/:id/contact.
func (h *FollowUpsHandler) LogContact(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Worker == nil {
		return apperrors.NewUnauthorized("worker required")
	}
	var req dto.CaseActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Note) == "" {
		return apperrors.NewValidationError("note required", nil)
	}

	event, err := h.service.LogContact(c.Context(), principal.Worker.ID, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(fiber.Map{"data": crisisEventResponse(event)})
}

// CompleteFollowUp POST /followups/:id/complete.
func (h *FollowUpsHandler) CompleteFollowUp(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Worker == nil {
		return apperrors.NewUnauthorized("worker required")
	}
	var req dto.CaseActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	event, err := h.service.CompleteFollowUp(c.Context(), principal.Worker.ID, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(fiber.Map{"data": crisisEventResponse(event)})
}

// ListContacts GET /followups/:id/contacts.
func (h *FollowUpsHandler) ListContacts(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("worker required")
	}
	logs, err := h.service.ContactHistory(c.Context(), c.Params("id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ContactLogResponse, 0, len(logs))
	for _, entry := range logs {
		items = append(items, dto.ContactLogResponse{
			ID:        entry.ID,
			WorkerID:  entry.WorkerID,
			Outcome:   entry.Outcome,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func queueResponse(result triage.Result) dto.FollowUpQueueResponse {
	items := make([]dto.FollowUpTaskResponse, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		items = append(items, dto.FollowUpTaskResponse{
			EventID:          task.EventID,
			UserID:           task.UserID,
			UserName:         task.UserName,
			RiskLevel:        task.RiskLevel,
			FollowUpType:     task.Type,
			DueAt:            task.DueAt,
			Priority:         task.Priority,
			Status:           task.Status,
			AssignedWorkerID: task.AssignedWorkerID,
			LastContactAt:    task.LastContactAt,
			Notes:            task.Notes,
		})
	}
	dropped := make([]dto.DroppedEventResponse, 0, len(result.Dropped))
	for _, d := range result.Dropped {
		dropped = append(dropped, dto.DroppedEventResponse{EventID: d.EventID, Reason: d.Reason})
	}
	return dto.FollowUpQueueResponse{
		Items:        items,
		DroppedCount: result.DroppedCount(),
		Dropped:      dropped,
		EvaluatedAt:  result.EvaluatedAt,
	}
}

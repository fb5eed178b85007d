package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-followup-service/internal/api/dto"
	"github.com/spec-kit/crisis-followup-service/internal/auth"
	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/service"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// WorkersHandler manages case-worker auth endpoints.
type WorkersHandler struct {
	service *service.AuthService
}

// NewWorkersHandler constructs handler.
func NewWorkersHandler(authService *service.AuthService) *WorkersHandler {
	return &WorkersHandler{service: authService}
}

// Login POST /auth/workers/login.
func (h *WorkersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	worker, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Worker:    workerResponse(worker),
	}})
}

// Create POST /workers (ADMIN only).
func (h *WorkersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	role := req.Role
	if role == "" {
		role = domain.CaseWorkerRoleWorker
	}
	if role != domain.CaseWorkerRoleWorker && role != domain.CaseWorkerRoleAdmin {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	worker, err := h.service.CreateWorker(c.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": workerResponse(worker)})
}

// ChangePassword POST /auth/password/change.
func (h *WorkersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Worker == nil {
		return apperrors.NewUnauthorized("worker required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return apperrors.NewValidationError("new_password required", nil)
	}

	if err := h.service.ChangePassword(c.Context(), principal.Worker.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /workers/me.
func (h *WorkersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Worker == nil {
		return apperrors.NewUnauthorized("worker required")
	}
	return c.JSON(fiber.Map{"data": workerResponse(principal.Worker)})
}

func workerResponse(worker *domain.CaseWorker) dto.WorkerResponse {
	return dto.WorkerResponse{
		ID:        worker.ID,
		Name:      worker.Name,
		Email:     worker.Email,
		Role:      worker.Role,
		Active:    worker.Active,
		CreatedAt: worker.CreatedAt,
	}
}

package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/repository"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated case worker.
type Principal struct {
	Worker *domain.CaseWorker
	Role   domain.CaseWorkerRole
}

// AuthMiddleware validates bearer tokens and loads the worker principal.
type AuthMiddleware struct {
	tokens  *TokenManager
	workers repository.CaseWorkerRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, workers repository.CaseWorkerRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, workers: workers}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	worker, err := m.workers.GetByID(c.Context(), claims.WorkerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("worker not found")
		}
		return apperrors.MapError(err)
	}
	if !worker.Active {
		return apperrors.NewForbidden("worker inactive")
	}

	c.Locals(principalKey, &Principal{Worker: worker, Role: worker.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated worker.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

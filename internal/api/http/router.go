package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-followup-service/internal/api/http/handlers"
	"github.com/spec-kit/crisis-followup-service/internal/auth"
	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Workers        *handlers.WorkersHandler
	CrisisEvents   *handlers.CrisisEventsHandler
	FollowUps      *handlers.FollowUpsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/workers/login", cfg.Workers.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Workers.ChangePassword)

	workers := app.Group("/workers", cfg.AuthMiddleware.Handle)
	workers.Get("/me", auth.RequireRole(), cfg.Workers.Me)
	workers.Post("", auth.RequireRole(domain.CaseWorkerRoleAdmin), cfg.Workers.Create)

	crisisEvents := app.Group("/crisis-events", cfg.AuthMiddleware.Handle, auth.RequireRole())
	crisisEvents.Post("", cfg.CrisisEvents.Create)
	crisisEvents.Get("", cfg.CrisisEvents.List)
	crisisEvents.Get("/:id", cfg.CrisisEvents.Get)

	followUps := app.Group("/followups", cfg.AuthMiddleware.Handle, auth.RequireRole())
	followUps.Get("", cfg.FollowUps.GetQueue)
	followUps.Get("/:id/contacts", cfg.FollowUps.ListContacts)
	followUps.Post("/:id/contact", cfg.FollowUps.LogContact)
	followUps.Post("/:id/complete", cfg.FollowUps.CompleteFollowUp)
}

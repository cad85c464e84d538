package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Complaints *handlers.ComplaintsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/complaints", cfg.Complaints.ListComplaints)
	api.Post("/complaints", cfg.Complaints.CreateComplaint)
	api.Get("/complaints/:id", cfg.Complaints.GetComplaint)
	api.Get("/complaints/:id/history", cfg.Complaints.GetCaseHistory)
	api.Patch("/complaints/:id", cfg.Complaints.UpdateComplaint)
}

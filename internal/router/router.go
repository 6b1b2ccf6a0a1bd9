package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentforge/crm-api/internal/config"
	"github.com/talentforge/crm-api/internal/handler"
	"github.com/talentforge/crm-api/internal/middleware"
	"github.com/talentforge/crm-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CompanyHandler     *handler.CompanyHandler
	ContactHandler     *handler.ContactHandler
	OpportunityHandler *handler.OpportunityHandler
	TaskHandler        *handler.TaskHandler
	ActivityHandler    *handler.ActivityHandler
	JobHandler         *handler.JobHandler
	ApplicationHandler *handler.ApplicationHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Candidate-facing job board; submissions are rate limited per caller.
	if deps.JobHandler != nil {
		jobs := api.Group("/jobs")
		deps.JobHandler.RegisterPublic(jobs)

		if deps.ApplicationHandler != nil {
			jobs.Use("/:id/applications", middleware.RateLimit("job_applications", 5, time.Minute))
			deps.ApplicationHandler.RegisterPublic(jobs)
		}
	}

	// Back-office surface
	crm := api.Group("/crm", jwtMiddleware)

	if deps.CompanyHandler != nil {
		deps.CompanyHandler.Register(crm.Group("/companies"))
	}
	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(crm.Group("/contacts"))
	}
	if deps.OpportunityHandler != nil {
		deps.OpportunityHandler.Register(crm.Group("/opportunities"))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(crm.Group("/tasks"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(crm.Group("/activities"))
		deps.ActivityHandler.RegisterDashboard(crm.Group("/dashboard"))
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterAdmin(crm.Group("/jobs"))
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterAdmin(crm.Group("/applications"))
	}
}

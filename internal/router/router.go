package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campushq/projectdesk-api/internal/config"
	"github.com/campushq/projectdesk-api/internal/handler"
	"github.com/campushq/projectdesk-api/internal/middleware"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	ProjectHandler      *handler.ProjectHandler
	TeamHandler         *handler.TeamHandler
	SubmissionHandler   *handler.SubmissionHandler
	AdminHandler        *handler.AdminHandler
	ChatbotHandler      *handler.ChatbotHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	// Supervisor access requests are submitted before an account exists.
	if deps.AdminHandler != nil {
		deps.AdminHandler.RegisterPublic(api)
	}

	if deps.ProjectHandler != nil {
		projects := api.Group("/projects", jwtMiddleware)
		deps.ProjectHandler.Register(projects)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterProjectRoutes(projects)
		}
	}

	if deps.TeamHandler != nil {
		teams := api.Group("/teams", jwtMiddleware)
		deps.TeamHandler.Register(teams)

		invitations := api.Group("/invitations", jwtMiddleware)
		deps.TeamHandler.RegisterInvitations(invitations)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterTeamRoutes(teams)
		}
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}

	if deps.ChatbotHandler != nil {
		chatbot := api.Group("/chatbot", jwtMiddleware)
		deps.ChatbotHandler.Register(chatbot)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}

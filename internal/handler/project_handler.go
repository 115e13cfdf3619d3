package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/middleware"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/service"
	"github.com/campushq/projectdesk-api/internal/utils"
)

// ProjectHandler exposes the project registry, enrollment, the project's
// teams and its leaderboard.
type ProjectHandler struct {
	projects    service.ProjectService
	teams       service.TeamService
	leaderboard service.LeaderboardService
	logger      zerolog.Logger
}

// NewProjectHandler constructs a project handler.
func NewProjectHandler(projects service.ProjectService, teams service.TeamService, leaderboard service.LeaderboardService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:    projects,
		teams:       teams,
		leaderboard: leaderboard,
		logger:      logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register wires the project routes. The router must already enforce
// authentication.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), h.update)
	router.Delete("/:id", middleware.RequireRole(models.RoleAdmin), h.deactivate)
	router.Post("/:id/enroll", middleware.RequireRole(models.RoleStudent), h.enroll)
	router.Get("/:id/teams", h.listTeams)
	router.Get("/:id/leaderboard", h.getLeaderboard)
}

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	response, err := h.projects.List(c.Context(), offset, limit)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list projects")
	}

	return utils.SendSuccess(c, "projects retrieved", response)
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.projects.Create(c.Context(), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "create project")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project created", response)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	response, err := h.projects.Get(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "get project")
	}

	return utils.SendSuccess(c, "project retrieved", response)
}

func (h *ProjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	var payload dto.ProjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.projects.Update(c.Context(), id, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "update project")
	}

	return utils.SendSuccess(c, "project updated", response)
}

func (h *ProjectHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	response, err := h.projects.Deactivate(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "deactivate project")
	}

	return utils.SendSuccess(c, "project deactivated", response)
}

func (h *ProjectHandler) enroll(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.projects.Enroll(c.Context(), id, userIDFromContext(c), payload); err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "enroll in project")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", nil)
}

func (h *ProjectHandler) listTeams(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	response, err := h.teams.ListByProject(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list teams")
	}

	return utils.SendSuccess(c, "teams retrieved", response)
}

func (h *ProjectHandler) getLeaderboard(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	response, err := h.leaderboard.Get(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "compute leaderboard")
	}

	return utils.SendSuccess(c, "leaderboard computed", response)
}

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

// TeamHandler exposes team formation and invitation endpoints.
type TeamHandler struct {
	service service.TeamService
	logger  zerolog.Logger
}

// NewTeamHandler constructs a team handler.
func NewTeamHandler(service service.TeamService, logger zerolog.Logger) *TeamHandler {
	return &TeamHandler{
		service: service,
		logger:  logger.With().Str("component", "team_handler").Logger(),
	}
}

// Register wires the team routes. The router must already enforce
// authentication.
func (h *TeamHandler) Register(router fiber.Router) {
	router.Post("", middleware.RequireRole(models.RoleStudent), h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/invitations", middleware.RequireRole(models.RoleStudent), h.invite)
	router.Get("/:id/invitations", h.listInvitations)
	router.Post("/:id/lock", middleware.RequireRole(models.RoleStudent), h.lock)
	router.Delete("/:id", middleware.RequireRole(models.RoleAdmin), h.deactivate)
}

// RegisterInvitations wires the invitation response route, addressed by
// invitation id rather than team id.
func (h *TeamHandler) RegisterInvitations(router fiber.Router) {
	router.Post("/:id/respond", middleware.RequireRole(models.RoleStudent), h.respond)
}

func (h *TeamHandler) create(c *fiber.Ctx) error {
	var payload dto.TeamCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "create team")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "team created", response)
}

func (h *TeamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "get team")
	}

	return utils.SendSuccess(c, "team retrieved", response)
}

func (h *TeamHandler) invite(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	var payload dto.TeamInviteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Invite(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "send invitation")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "invitation sent", response)
}

func (h *TeamHandler) listInvitations(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	response, err := h.service.ListInvitations(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list invitations")
	}

	return utils.SendSuccess(c, "invitations retrieved", response)
}

func (h *TeamHandler) respond(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid invitation id")
	}

	var payload dto.InvitationRespondRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RespondToInvitation(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "respond to invitation")
	}

	return utils.SendSuccess(c, "invitation answered", response)
}

func (h *TeamHandler) lock(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	response, err := h.service.Lock(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "lock team")
	}

	return utils.SendSuccess(c, "team locked", response)
}

func (h *TeamHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	response, err := h.service.Deactivate(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "deactivate team")
	}

	return utils.SendSuccess(c, "team deactivated", response)
}

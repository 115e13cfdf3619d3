package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/service"
	"github.com/campushq/projectdesk-api/internal/utils"
)

// AdminHandler exposes supervisor access requests, the audit log and the
// dashboard counters.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated supervisor request submission.
func (h *AdminHandler) RegisterPublic(router fiber.Router) {
	router.Post("/supervisor-requests", h.submitRequest)
}

// Register wires the admin-only routes. The router must already enforce the
// admin role.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/supervisor-requests", h.listRequests)
	router.Post("/supervisor-requests/:id/approve", h.approveRequest)
	router.Post("/supervisor-requests/:id/reject", h.rejectRequest)
	router.Get("/logs", h.logs)
	router.Get("/stats", h.stats)
}

func (h *AdminHandler) submitRequest(c *fiber.Ctx) error {
	var payload dto.SupervisorRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.SubmitSupervisorRequest(c.Context(), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "submit supervisor request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "supervisor request submitted", response)
}

func (h *AdminHandler) listRequests(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status", models.ApprovalStatusPending))

	response, err := h.service.ListSupervisorRequests(c.Context(), status)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list supervisor requests")
	}

	return utils.SendSuccess(c, "supervisor requests retrieved", response)
}

func (h *AdminHandler) approveRequest(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	response, err := h.service.ApproveSupervisorRequest(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "approve supervisor request")
	}

	return utils.SendSuccess(c, "supervisor request approved", response)
}

func (h *AdminHandler) rejectRequest(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	response, err := h.service.RejectSupervisorRequest(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "reject supervisor request")
	}

	return utils.SendSuccess(c, "supervisor request rejected", response)
}

func (h *AdminHandler) logs(c *fiber.Ctx) error {
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	response, err := h.service.Logs(c.Context(), offset, limit)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list admin logs")
	}

	return utils.SendSuccess(c, "admin logs retrieved", response)
}

func (h *AdminHandler) stats(c *fiber.Ctx) error {
	response, err := h.service.Stats(c.Context())
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "compute stats")
	}

	return utils.SendSuccess(c, "stats computed", response)
}

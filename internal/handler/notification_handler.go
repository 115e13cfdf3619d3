package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/projectdesk-api/internal/service"
	"github.com/campushq/projectdesk-api/internal/utils"
)

// NotificationHandler exposes the in-app notification inbox.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register wires the notification routes. The router must already enforce
// authentication.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	response, err := h.service.List(c.Context(), userIDFromContext(c), limit, offset)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list notifications")
	}

	return utils.SendSuccess(c, "notifications retrieved", response)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	response, err := h.service.MarkRead(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "mark notification read")
	}

	return utils.SendSuccess(c, "notification read", response)
}

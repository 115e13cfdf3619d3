package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/service"
	"github.com/campushq/projectdesk-api/internal/utils"
)

// ChatbotHandler exposes the FAQ chatbot and its session history.
type ChatbotHandler struct {
	service service.ChatbotService
	logger  zerolog.Logger
}

// NewChatbotHandler constructs a chatbot handler.
func NewChatbotHandler(service service.ChatbotService, logger zerolog.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		service: service,
		logger:  logger.With().Str("component", "chatbot_handler").Logger(),
	}
}

// Register wires the chatbot routes. The router must already enforce
// authentication.
func (h *ChatbotHandler) Register(router fiber.Router) {
	router.Post("/ask", h.ask)
	router.Get("/sessions", h.sessions)
	router.Delete("/sessions/:id", h.deleteSession)
}

func (h *ChatbotHandler) ask(c *fiber.Ctx) error {
	var payload dto.ChatAskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Ask(c.Context(), userIDFromContext(c), userRoleFromContext(c), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "answer question")
	}

	return utils.SendSuccess(c, "question answered", response)
}

func (h *ChatbotHandler) sessions(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	response, err := h.service.Sessions(c.Context(), userIDFromContext(c), limit)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list chat sessions")
	}

	return utils.SendSuccess(c, "chat sessions retrieved", response)
}

func (h *ChatbotHandler) deleteSession(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid session id")
	}

	if err := h.service.DeleteSession(c.Context(), userIDFromContext(c), id); err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "delete chat session")
	}

	return utils.SendSuccess(c, "chat session deleted", nil)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/service"
	"github.com/campushq/projectdesk-api/internal/utils"
)

// AuthHandler exposes the login endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.requestOTP)
	router.Post("/verify", h.verifyOTP)
	router.Post("/admin/login", h.adminLogin)
	router.Post("/verify-token", h.verifyToken)
}

func (h *AuthHandler) requestOTP(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RequestOTP(c.Context(), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "start login")
	}

	return utils.SendSuccess(c, "login started", response)
}

func (h *AuthHandler) verifyOTP(c *fiber.Ctx) error {
	var payload dto.OTPVerifyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.VerifyOTP(c.Context(), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "verify login code")
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) adminLogin(c *fiber.Ctx) error {
	var payload dto.AdminLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.AdminLogin(c.Context(), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "sign in")
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) verifyToken(c *fiber.Ctx) error {
	var payload dto.TokenVerifyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.VerifyToken(c.Context(), payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "verify token")
	}

	return utils.SendSuccess(c, "token valid", response)
}

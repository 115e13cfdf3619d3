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

// SubmissionHandler exposes staged uploads, peer votes and feedback.
type SubmissionHandler struct {
	submissions service.SubmissionService
	reviews     service.ReviewService
	logger      zerolog.Logger
}

// NewSubmissionHandler constructs a submission handler.
func NewSubmissionHandler(submissions service.SubmissionService, reviews service.ReviewService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		reviews:     reviews,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// RegisterProjectRoutes wires the routes addressed by project id.
func (h *SubmissionHandler) RegisterProjectRoutes(router fiber.Router) {
	router.Get("/:id/submissions/pending", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), h.listPendingReview)
}

// RegisterTeamRoutes wires the routes addressed by team id.
func (h *SubmissionHandler) RegisterTeamRoutes(router fiber.Router) {
	router.Post("/:id/submissions", middleware.RequireRole(models.RoleStudent), h.upload)
	router.Get("/:id/submissions", h.listByTeam)
}

// Register wires the routes addressed by submission id.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Post("/:id/vote", middleware.RequireRole(models.RoleStudent), h.vote)
	router.Get("/:id/feedback", h.listFeedback)
	router.Post("/:id/feedback/supervisor", middleware.RequireRole(models.RoleSupervisor), h.supervisorFeedback)
	router.Post("/:id/feedback/admin", middleware.RequireRole(models.RoleAdmin), h.adminFeedback)
}

func (h *SubmissionHandler) upload(c *fiber.Ctx) error {
	teamID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	var payload dto.SubmissionUploadRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.submissions.Upload(c.Context(), userIDFromContext(c), teamID, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "upload submission")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission uploaded", response)
}

func (h *SubmissionHandler) listByTeam(c *fiber.Ctx) error {
	teamID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	response, err := h.submissions.ListByTeam(c.Context(), userIDFromContext(c), userRoleFromContext(c), teamID)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list submissions")
	}

	return utils.SendSuccess(c, "submissions retrieved", response)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	response, err := h.submissions.Get(c.Context(), userIDFromContext(c), userRoleFromContext(c), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "get submission")
	}

	return utils.SendSuccess(c, "submission retrieved", response)
}

func (h *SubmissionHandler) vote(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.ApprovalVoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.submissions.Vote(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "record vote")
	}

	return utils.SendSuccess(c, "vote recorded", response)
}

func (h *SubmissionHandler) listPendingReview(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	response, err := h.reviews.ListPendingReview(c.Context(), projectID)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list pending submissions")
	}

	return utils.SendSuccess(c, "pending submissions retrieved", response)
}

func (h *SubmissionHandler) listFeedback(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	response, err := h.reviews.ListFeedback(c.Context(), id)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "list feedback")
	}

	return utils.SendSuccess(c, "feedback retrieved", response)
}

func (h *SubmissionHandler) supervisorFeedback(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.SupervisorFeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.reviews.RecordSupervisorFeedback(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "record feedback")
	}

	return utils.SendSuccess(c, "feedback recorded", response)
}

func (h *SubmissionHandler) adminFeedback(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.AdminFeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.reviews.RecordAdminFeedback(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, requestLogger(h.logger, c), err, "record feedback")
	}

	return utils.SendSuccess(c, "feedback recorded", response)
}

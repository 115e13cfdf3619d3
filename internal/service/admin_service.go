package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/notify"
	"github.com/campushq/projectdesk-api/internal/repository"
)

// AdminService covers supervisor access requests, the audit log and the
// dashboard counters.
type AdminService interface {
	SubmitSupervisorRequest(ctx context.Context, payload dto.SupervisorRequestCreate) (dto.SupervisorRequestResponse, error)
	ListSupervisorRequests(ctx context.Context, status string) ([]dto.SupervisorRequestResponse, error)
	ApproveSupervisorRequest(ctx context.Context, adminID, requestID uint) (dto.SupervisorRequestResponse, error)
	RejectSupervisorRequest(ctx context.Context, adminID, requestID uint) (dto.SupervisorRequestResponse, error)
	Logs(ctx context.Context, offset, limit int) ([]dto.AdminLogResponse, error)
	Stats(ctx context.Context) (dto.AdminStatsResponse, error)
}

type adminService struct {
	requests  repository.SupervisorRequestRepository
	users     repository.UserRepository
	adminLogs repository.AdminLogRepository
	notifier  notify.Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(requests repository.SupervisorRequestRepository, users repository.UserRepository, adminLogs repository.AdminLogRepository, notifier notify.Notifier, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		requests:  requests,
		users:     users,
		adminLogs: adminLogs,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
		now:       time.Now,
	}
}

func (s *adminService) SubmitSupervisorRequest(ctx context.Context, payload dto.SupervisorRequestCreate) (dto.SupervisorRequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SupervisorRequestResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.SupervisorRequestResponse{}, fmt.Errorf("account already exists: %w", apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SupervisorRequestResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	request := models.SupervisorRequest{
		Name:       payload.Name,
		Email:      email,
		Department: payload.Department,
		TeacherID:  payload.TeacherID,
		Status:     models.ApprovalStatusPending,
	}
	if err := s.requests.Create(ctx, &request); err != nil {
		return dto.SupervisorRequestResponse{}, fmt.Errorf("create supervisor request: %w", err)
	}

	s.logger.Info().Uint("request_id", request.ID).Str("email", email).Msg("supervisor request submitted")

	return dto.NewSupervisorRequestResponse(request), nil
}

func (s *adminService) ListSupervisorRequests(ctx context.Context, status string) ([]dto.SupervisorRequestResponse, error) {
	requests, err := s.requests.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list supervisor requests: %w", err)
	}

	return dto.NewSupervisorRequestResponseSlice(requests), nil
}

func (s *adminService) ApproveSupervisorRequest(ctx context.Context, adminID, requestID uint) (dto.SupervisorRequestResponse, error) {
	request, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return dto.SupervisorRequestResponse{}, err
	}

	user := models.User{
		Email:                request.Email,
		Name:                 request.Name,
		Role:                 models.RoleSupervisor,
		TeacherID:            request.TeacherID,
		SupervisorDepartment: request.Department,
		IsActive:             true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.SupervisorRequestResponse{}, fmt.Errorf("create supervisor account: %w", err)
	}

	approvedAt := s.now()
	request.Status = models.ApprovalStatusApproved
	request.ApprovedBy = &adminID
	request.ApprovedDate = &approvedAt
	if err := s.requests.Update(ctx, &request); err != nil {
		return dto.SupervisorRequestResponse{}, fmt.Errorf("update supervisor request: %w", err)
	}

	s.audit(ctx, adminID, "approve_supervisor_request", request.ID, map[string]any{"email": request.Email})

	s.notifier.Dispatch(ctx, notify.Intent{
		UserID:  user.ID,
		Email:   request.Email,
		Kind:    models.NotificationKindSupervisorRequestDecision,
		Title:   "Supervisor access approved",
		Message: "Your supervisor access request was approved. Sign in with your email to get started.",
	})

	s.logger.Info().Uint("request_id", request.ID).Uint("admin_id", adminID).Msg("supervisor request approved")

	return dto.NewSupervisorRequestResponse(request), nil
}

func (s *adminService) RejectSupervisorRequest(ctx context.Context, adminID, requestID uint) (dto.SupervisorRequestResponse, error) {
	request, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return dto.SupervisorRequestResponse{}, err
	}

	decidedAt := s.now()
	request.Status = models.ApprovalStatusRejected
	request.ApprovedBy = &adminID
	request.ApprovedDate = &decidedAt
	if err := s.requests.Update(ctx, &request); err != nil {
		return dto.SupervisorRequestResponse{}, fmt.Errorf("update supervisor request: %w", err)
	}

	s.audit(ctx, adminID, "reject_supervisor_request", request.ID, map[string]any{"email": request.Email})

	s.notifier.Dispatch(ctx, notify.Intent{
		Email:   request.Email,
		Kind:    models.NotificationKindSupervisorRequestDecision,
		Title:   "Supervisor access request declined",
		Message: "Your supervisor access request was declined. Contact the administration for details.",
	})

	s.logger.Info().Uint("request_id", request.ID).Uint("admin_id", adminID).Msg("supervisor request rejected")

	return dto.NewSupervisorRequestResponse(request), nil
}

func (s *adminService) Logs(ctx context.Context, offset, limit int) ([]dto.AdminLogResponse, error) {
	logs, err := s.adminLogs.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list admin logs: %w", err)
	}

	return dto.NewAdminLogResponseSlice(logs), nil
}

func (s *adminService) Stats(ctx context.Context) (dto.AdminStatsResponse, error) {
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return dto.AdminStatsResponse{}, fmt.Errorf("count users: %w", err)
	}

	supervisors, err := s.users.CountByRole(ctx, models.RoleSupervisor)
	if err != nil {
		return dto.AdminStatsResponse{}, fmt.Errorf("count supervisors: %w", err)
	}

	students, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return dto.AdminStatsResponse{}, fmt.Errorf("count students: %w", err)
	}

	pending, err := s.requests.CountByStatus(ctx, models.ApprovalStatusPending)
	if err != nil {
		return dto.AdminStatsResponse{}, fmt.Errorf("count pending requests: %w", err)
	}

	return dto.AdminStatsResponse{
		TotalUsers:      total,
		TotalSupervisor: supervisors,
		TotalStudents:   students,
		PendingRequests: pending,
	}, nil
}

func (s *adminService) pendingRequest(ctx context.Context, requestID uint) (models.SupervisorRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SupervisorRequest{}, fmt.Errorf("supervisor request %d: %w", requestID, apperr.ErrNotFound)
		}
		return models.SupervisorRequest{}, fmt.Errorf("get supervisor request: %w", err)
	}

	if request.Status != models.ApprovalStatusPending {
		return models.SupervisorRequest{}, fmt.Errorf("request already decided: %w", apperr.ErrInvalidState)
	}

	return request, nil
}

func (s *adminService) audit(ctx context.Context, adminID uint, action string, resourceID uint, details map[string]any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}

	entry := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: "supervisor_request",
		ResourceID:   &resourceID,
		Details:      string(payload),
	}
	if err := s.adminLogs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/repository"
)

// ProjectService manages the project registry and student enrollment.
type ProjectService interface {
	Create(ctx context.Context, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Get(ctx context.Context, id uint) (dto.ProjectResponse, error)
	List(ctx context.Context, offset, limit int) ([]dto.ProjectResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Deactivate(ctx context.Context, id uint) (dto.ProjectResponse, error)
	Enroll(ctx context.Context, projectID, userID uint, payload dto.EnrollRequest) error
}

type projectService struct {
	projects  repository.ProjectRepository
	users     repository.UserRepository
	validator *validator.Validate
	baseURL   string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProjectService constructs a ProjectService instance. baseURL is the
// frontend origin enrollment links point at.
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, validate *validator.Validate, baseURL string, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		users:     users,
		validator: validate,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger.With().Str("component", "project_service").Logger(),
		now:       time.Now,
	}
}

func (s *projectService) Create(ctx context.Context, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	if !payload.Deadline.After(s.now()) {
		return dto.ProjectResponse{}, fmt.Errorf("deadline must be in the future: %w", apperr.ErrInvalidArgument)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	project := models.Project{
		Title:           payload.Title,
		Description:     payload.Description,
		Branch:          payload.Branch,
		Batch:           payload.Batch,
		Deadline:        payload.Deadline,
		EnrollmentToken: token,
		EnrollmentLink:  fmt.Sprintf("%s/enroll/%s", s.baseURL, token),
		IsActive:        true,
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return dto.ProjectResponse{}, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info().Uint("project_id", project.ID).Str("title", project.Title).Msg("project created")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Get(ctx context.Context, id uint) (dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, fmt.Errorf("project %d: %w", id, apperr.ErrNotFound)
		}
		return dto.ProjectResponse{}, fmt.Errorf("get project: %w", err)
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) List(ctx context.Context, offset, limit int) ([]dto.ProjectResponse, error) {
	projects, err := s.projects.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return dto.NewProjectResponseSlice(projects), nil
}

func (s *projectService) Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, fmt.Errorf("project %d: %w", id, apperr.ErrNotFound)
		}
		return dto.ProjectResponse{}, fmt.Errorf("get project: %w", err)
	}

	if payload.Title != nil {
		project.Title = *payload.Title
	}
	if payload.Description != nil {
		project.Description = *payload.Description
	}
	if payload.Branch != nil {
		project.Branch = *payload.Branch
	}
	if payload.Batch != nil {
		project.Batch = *payload.Batch
	}
	if payload.Deadline != nil {
		project.Deadline = *payload.Deadline
	}

	if err := s.projects.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, fmt.Errorf("update project: %w", err)
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Deactivate(ctx context.Context, id uint) (dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, fmt.Errorf("project %d: %w", id, apperr.ErrNotFound)
		}
		return dto.ProjectResponse{}, fmt.Errorf("get project: %w", err)
	}

	if !project.IsActive {
		return dto.ProjectResponse{}, fmt.Errorf("project already inactive: %w", apperr.ErrInvalidState)
	}

	project.IsActive = false
	if err := s.projects.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, fmt.Errorf("deactivate project: %w", err)
	}

	s.logger.Info().Uint("project_id", project.ID).Msg("project deactivated")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Enroll(ctx context.Context, projectID, userID uint, payload dto.EnrollRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
		}
		return fmt.Errorf("get user: %w", err)
	}

	if !user.IsStudent() {
		return fmt.Errorf("only students enroll in projects: %w", apperr.ErrForbidden)
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project %d: %w", projectID, apperr.ErrNotFound)
		}
		return fmt.Errorf("get project: %w", err)
	}

	if !project.IsActive {
		return fmt.Errorf("project is inactive: %w", apperr.ErrInvalidState)
	}

	if project.EnrollmentToken != payload.Token {
		return fmt.Errorf("enrollment token mismatch: %w", apperr.ErrInvalidArgument)
	}

	if _, err := s.projects.GetEnrollment(ctx, projectID, userID); err == nil {
		return fmt.Errorf("already enrolled: %w", apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check enrollment: %w", err)
	}

	enrollment := models.ProjectEnrollment{ProjectID: projectID, UserID: userID}
	if err := s.projects.CreateEnrollment(ctx, &enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}

	s.logger.Info().Uint("project_id", projectID).Uint("user_id", userID).Msg("student enrolled")

	return nil
}

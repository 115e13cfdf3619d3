package dto

import (
	"time"

	"github.com/campushq/projectdesk-api/internal/models"
)

// ProjectCreateRequest describes the payload for creating a project.
type ProjectCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"required"`
	Branch      string    `json:"branch" validate:"required"`
	Batch       string    `json:"batch" validate:"required"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

// ProjectUpdateRequest mutates project details. The enrollment token is
// immutable and deliberately absent.
type ProjectUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string    `json:"description"`
	Branch      *string    `json:"branch"`
	Batch       *string    `json:"batch"`
	Deadline    *time.Time `json:"deadline"`
}

// EnrollRequest joins a student to a project via its enrollment token.
type EnrollRequest struct {
	Token string `json:"token" validate:"required"`
}

// ProjectResponse is returned to API clients when viewing projects.
type ProjectResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Branch         string    `json:"branch"`
	Batch          string    `json:"batch"`
	Deadline       time.Time `json:"deadline"`
	EnrollmentLink string    `json:"enrollment_link"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewProjectResponse converts a Project model into a DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	return ProjectResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		Branch:         model.Branch,
		Batch:          model.Batch,
		Deadline:       model.Deadline,
		EnrollmentLink: model.EnrollmentLink,
		IsActive:       model.IsActive,
		CreatedAt:      model.CreatedAt,
	}
}

// NewProjectResponseSlice converts project models into DTOs.
func NewProjectResponseSlice(items []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(items))
	for _, project := range items {
		responses = append(responses, NewProjectResponse(project))
	}

	return responses
}

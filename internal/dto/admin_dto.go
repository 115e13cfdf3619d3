package dto

import (
	"time"

	"github.com/campushq/projectdesk-api/internal/models"
)

// SupervisorRequestCreate is a teacher's application for supervisor access.
type SupervisorRequestCreate struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
}

// SupervisorRequestResponse serializes a supervisor access request.
type SupervisorRequestResponse struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Department   string     `json:"department"`
	TeacherID    string     `json:"teacher_id"`
	Status       string     `json:"status"`
	ApprovedBy   *uint      `json:"approved_by"`
	RequestDate  time.Time  `json:"request_date"`
	ApprovedDate *time.Time `json:"approved_date"`
}

// AdminLogResponse serializes one audit log row.
type AdminLogResponse struct {
	ID           uint      `json:"id"`
	AdminID      uint      `json:"admin_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   *uint     `json:"resource_id"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminStatsResponse summarizes the admin dashboard counters.
type AdminStatsResponse struct {
	TotalUsers      int64 `json:"total_users"`
	TotalSupervisor int64 `json:"total_supervisors"`
	TotalStudents   int64 `json:"total_students"`
	PendingRequests int64 `json:"pending_requests"`
}

// NewSupervisorRequestResponse converts a SupervisorRequest model into a DTO.
func NewSupervisorRequestResponse(model models.SupervisorRequest) SupervisorRequestResponse {
	return SupervisorRequestResponse{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Department:   model.Department,
		TeacherID:    model.TeacherID,
		Status:       model.Status,
		ApprovedBy:   model.ApprovedBy,
		RequestDate:  model.RequestDate,
		ApprovedDate: model.ApprovedDate,
	}
}

// NewSupervisorRequestResponseSlice converts request models into DTOs.
func NewSupervisorRequestResponseSlice(items []models.SupervisorRequest) []SupervisorRequestResponse {
	responses := make([]SupervisorRequestResponse, 0, len(items))
	for _, request := range items {
		responses = append(responses, NewSupervisorRequestResponse(request))
	}

	return responses
}

// NewAdminLogResponse converts an AdminLog model into a DTO.
func NewAdminLogResponse(model models.AdminLog) AdminLogResponse {
	return AdminLogResponse{
		ID:           model.ID,
		AdminID:      model.AdminID,
		Action:       model.Action,
		ResourceType: model.ResourceType,
		ResourceID:   model.ResourceID,
		Details:      model.Details,
		CreatedAt:    model.CreatedAt,
	}
}

// NewAdminLogResponseSlice converts audit log models into DTOs.
func NewAdminLogResponseSlice(items []models.AdminLog) []AdminLogResponse {
	responses := make([]AdminLogResponse, 0, len(items))
	for _, log := range items {
		responses = append(responses, NewAdminLogResponse(log))
	}

	return responses
}

package dto

import (
	"time"

	"github.com/campushq/projectdesk-api/internal/models"
)

// SubmissionUploadRequest describes a staged document upload. The document
// itself lives in external storage; only the pre-validated reference arrives
// here.
type SubmissionUploadRequest struct {
	Stage    string `json:"stage" validate:"required"`
	FileURL  string `json:"file_url" validate:"required,url"`
	FileName string `json:"file_name" validate:"required,min=1,max=255"`
}

// ApprovalVoteRequest records a member's vote on a submission.
type ApprovalVoteRequest struct {
	Approve bool `json:"approve"`
}

// SupervisorFeedbackRequest carries a supervisor score in [0,10].
type SupervisorFeedbackRequest struct {
	Score                float64    `json:"score" validate:"gte=0,lte=10"`
	Comments             string     `json:"comments"`
	ResubmissionDeadline *time.Time `json:"resubmission_deadline"`
}

// AdminFeedbackRequest carries an admin score in [0,20].
type AdminFeedbackRequest struct {
	Score    float64 `json:"score" validate:"gte=0,lte=20"`
	Comments string  `json:"comments"`
}

// ApprovalResponse serializes one member vote.
type ApprovalResponse struct {
	ID           uint       `json:"id"`
	SubmissionID uint       `json:"submission_id"`
	UserID       uint       `json:"user_id"`
	Status       string     `json:"status"`
	RespondedAt  *time.Time `json:"responded_at"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID                 uint               `json:"id"`
	TeamID             uint               `json:"team_id"`
	Stage              string             `json:"stage"`
	FileURL            string             `json:"file_url"`
	FileName           string             `json:"file_name"`
	UploadedBy         uint               `json:"uploaded_by"`
	TeamApprovalStatus string             `json:"team_approval_status"`
	SubmittedAt        time.Time          `json:"submitted_at"`
	ApprovedAt         *time.Time         `json:"approved_at"`
	Approvals          []ApprovalResponse `json:"approvals,omitempty"`
}

// FeedbackResponse serializes a live feedback row.
type FeedbackResponse struct {
	ID                   uint       `json:"id"`
	SubmissionID         uint       `json:"submission_id"`
	SupervisorID         *uint      `json:"supervisor_id"`
	AdminID              *uint      `json:"admin_id"`
	SupervisorScore      *float64   `json:"supervisor_score"`
	AdminScore           *float64   `json:"admin_score"`
	Comments             string     `json:"comments"`
	ResubmissionDeadline *time.Time `json:"resubmission_deadline"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewApprovalResponse converts a SubmissionApproval model into a DTO.
func NewApprovalResponse(model models.SubmissionApproval) ApprovalResponse {
	return ApprovalResponse{
		ID:           model.ID,
		SubmissionID: model.SubmissionID,
		UserID:       model.UserID,
		Status:       model.Status,
		RespondedAt:  model.RespondedAt,
	}
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission, approvals []models.SubmissionApproval) SubmissionResponse {
	response := SubmissionResponse{
		ID:                 model.ID,
		TeamID:             model.TeamID,
		Stage:              model.Stage,
		FileURL:            model.FileURL,
		FileName:           model.FileName,
		UploadedBy:         model.UploadedBy,
		TeamApprovalStatus: model.TeamApprovalStatus,
		SubmittedAt:        model.SubmittedAt,
		ApprovedAt:         model.ApprovedAt,
	}

	if len(approvals) > 0 {
		votes := make([]ApprovalResponse, 0, len(approvals))
		for _, approval := range approvals {
			votes = append(votes, NewApprovalResponse(approval))
		}
		response.Approvals = votes
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs without votes.
func NewSubmissionResponseSlice(items []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, submission := range items {
		responses = append(responses, NewSubmissionResponse(submission, nil))
	}

	return responses
}

// NewFeedbackResponse converts a SubmissionFeedback model into a DTO.
func NewFeedbackResponse(model models.SubmissionFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:                   model.ID,
		SubmissionID:         model.SubmissionID,
		SupervisorID:         model.SupervisorID,
		AdminID:              model.AdminID,
		SupervisorScore:      model.SupervisorScore,
		AdminScore:           model.AdminScore,
		Comments:             model.Comments,
		ResubmissionDeadline: model.ResubmissionDeadline,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

// NewFeedbackResponseSlice converts feedback models into DTOs.
func NewFeedbackResponseSlice(items []models.SubmissionFeedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(items))
	for _, feedback := range items {
		responses = append(responses, NewFeedbackResponse(feedback))
	}

	return responses
}

package dto

import (
	"time"

	"github.com/campushq/projectdesk-api/internal/models"
)

// TeamCreateRequest describes the payload for forming a new team.
type TeamCreateRequest struct {
	ProjectID uint   `json:"project_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,min=2,max=255"`
}

// TeamInviteRequest invites a member by email.
type TeamInviteRequest struct {
	InviteeEmail string `json:"invitee_email" validate:"required,email"`
}

// InvitationRespondRequest accepts or rejects an invitation.
type InvitationRespondRequest struct {
	Accept bool `json:"accept"`
}

// MemberResponse summarizes one roster member.
type MemberResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InvitationResponse serializes a team invitation.
type InvitationResponse struct {
	ID           uint       `json:"id"`
	TeamID       uint       `json:"team_id"`
	InviteeEmail string     `json:"invitee_email"`
	Status       string     `json:"status"`
	InvitedAt    time.Time  `json:"invited_at"`
	RespondedAt  *time.Time `json:"responded_at"`
}

// TeamResponse is returned to API clients when viewing teams.
type TeamResponse struct {
	ID        uint             `json:"id"`
	ProjectID uint             `json:"project_id"`
	LeaderID  uint             `json:"leader_id"`
	Name      string           `json:"name"`
	Status    string           `json:"status"`
	Members   []MemberResponse `json:"members,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewInvitationResponse converts a TeamInvitation model into a DTO.
func NewInvitationResponse(model models.TeamInvitation) InvitationResponse {
	return InvitationResponse{
		ID:           model.ID,
		TeamID:       model.TeamID,
		InviteeEmail: model.InviteeEmail,
		Status:       model.Status,
		InvitedAt:    model.InvitedAt,
		RespondedAt:  model.RespondedAt,
	}
}

// NewTeamResponse converts a Team model and its roster into a DTO.
func NewTeamResponse(model models.Team, roster []models.User) TeamResponse {
	response := TeamResponse{
		ID:        model.ID,
		ProjectID: model.ProjectID,
		LeaderID:  model.LeaderID,
		Name:      model.Name,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}

	if len(roster) > 0 {
		members := make([]MemberResponse, 0, len(roster))
		for _, member := range roster {
			members = append(members, MemberResponse{
				ID:    member.ID,
				Name:  member.Name,
				Email: member.Email,
				Role:  member.Role,
			})
		}
		response.Members = members
	}

	return response
}

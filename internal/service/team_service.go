package service

import (
	"context"
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

// TeamService drives team formation: creation, invitations, activation and
// the leader's roster lock.
type TeamService interface {
	Create(ctx context.Context, leaderID uint, payload dto.TeamCreateRequest) (dto.TeamResponse, error)
	Get(ctx context.Context, id uint) (dto.TeamResponse, error)
	ListByProject(ctx context.Context, projectID uint) ([]dto.TeamResponse, error)
	Invite(ctx context.Context, userID, teamID uint, payload dto.TeamInviteRequest) (dto.InvitationResponse, error)
	ListInvitations(ctx context.Context, userID, teamID uint) ([]dto.InvitationResponse, error)
	RespondToInvitation(ctx context.Context, userID, invitationID uint, payload dto.InvitationRespondRequest) (dto.TeamResponse, error)
	Lock(ctx context.Context, userID, teamID uint) (dto.TeamResponse, error)
	Deactivate(ctx context.Context, teamID uint) (dto.TeamResponse, error)
}

type teamService struct {
	teams     repository.TeamRepository
	projects  repository.ProjectRepository
	users     repository.UserRepository
	notifier  notify.Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(teams repository.TeamRepository, projects repository.ProjectRepository, users repository.UserRepository, notifier notify.Notifier, validate *validator.Validate, logger zerolog.Logger) TeamService {
	return &teamService{
		teams:     teams,
		projects:  projects,
		users:     users,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "team_service").Logger(),
		now:       time.Now,
	}
}

func (s *teamService) Create(ctx context.Context, leaderID uint, payload dto.TeamCreateRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	project, err := s.projects.GetByID(ctx, payload.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, fmt.Errorf("project %d: %w", payload.ProjectID, apperr.ErrNotFound)
		}
		return dto.TeamResponse{}, fmt.Errorf("get project: %w", err)
	}

	if !project.IsActive {
		return dto.TeamResponse{}, fmt.Errorf("project is inactive: %w", apperr.ErrInvalidState)
	}

	if _, err := s.projects.GetEnrollment(ctx, project.ID, leaderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, fmt.Errorf("leader is not enrolled: %w", apperr.ErrForbidden)
		}
		return dto.TeamResponse{}, fmt.Errorf("check enrollment: %w", err)
	}

	inTeam, err := s.teams.MembershipInProject(ctx, project.ID, leaderID)
	if err != nil {
		return dto.TeamResponse{}, fmt.Errorf("check membership: %w", err)
	}
	if inTeam {
		return dto.TeamResponse{}, fmt.Errorf("already in a team for this project: %w", apperr.ErrConflict)
	}

	team := models.Team{
		ProjectID: project.ID,
		LeaderID:  leaderID,
		Name:      payload.Name,
		Status:    models.TeamStatusPending,
	}
	if err := s.teams.Create(ctx, &team); err != nil {
		return dto.TeamResponse{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.Info().Uint("team_id", team.ID).Uint("project_id", project.ID).Msg("team created")

	return s.withRoster(ctx, team)
}

func (s *teamService) Get(ctx context.Context, id uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, fmt.Errorf("team %d: %w", id, apperr.ErrNotFound)
		}
		return dto.TeamResponse{}, fmt.Errorf("get team: %w", err)
	}

	return s.withRoster(ctx, team)
}

func (s *teamService) ListByProject(ctx context.Context, projectID uint) ([]dto.TeamResponse, error) {
	teams, err := s.teams.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	responses := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, dto.NewTeamResponse(team, nil))
	}

	return responses, nil
}

func (s *teamService) Invite(ctx context.Context, userID, teamID uint, payload dto.TeamInviteRequest) (dto.InvitationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InvitationResponse{}, err
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InvitationResponse{}, fmt.Errorf("team %d: %w", teamID, apperr.ErrNotFound)
		}
		return dto.InvitationResponse{}, fmt.Errorf("get team: %w", err)
	}

	if team.LeaderID != userID {
		return dto.InvitationResponse{}, fmt.Errorf("only the leader invites members: %w", apperr.ErrForbidden)
	}

	if team.Status != models.TeamStatusPending && team.Status != models.TeamStatusActive {
		return dto.InvitationResponse{}, fmt.Errorf("team no longer accepts invitations: %w", apperr.ErrInvalidState)
	}

	email := strings.ToLower(strings.TrimSpace(payload.InviteeEmail))

	exists, err := s.teams.PendingInvitationExists(ctx, teamID, email)
	if err != nil {
		return dto.InvitationResponse{}, fmt.Errorf("check invitations: %w", err)
	}
	if exists {
		return dto.InvitationResponse{}, fmt.Errorf("invitation already pending: %w", apperr.ErrConflict)
	}

	// An existing user must be an enrolled student without a team in this
	// project. Unknown emails may still be invited; the checks re-run when
	// they respond.
	invitee, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.checkInvitee(ctx, team, invitee); err != nil {
			return dto.InvitationResponse{}, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.InvitationResponse{}, fmt.Errorf("lookup invitee: %w", err)
	}

	invitation := models.TeamInvitation{
		TeamID:       teamID,
		InviteeEmail: email,
		Status:       models.ApprovalStatusPending,
	}
	if err := s.teams.CreateInvitation(ctx, &invitation); err != nil {
		return dto.InvitationResponse{}, fmt.Errorf("create invitation: %w", err)
	}

	s.notifier.Dispatch(ctx, notify.Intent{
		UserID:  invitee.ID,
		Email:   email,
		Kind:    models.NotificationKindTeamInvitation,
		Title:   fmt.Sprintf("Invitation to join team %s", team.Name),
		Message: fmt.Sprintf("You have been invited to join team %s. Respond from your dashboard.", team.Name),
	})

	s.logger.Info().Uint("team_id", teamID).Str("invitee", email).Msg("invitation sent")

	return dto.NewInvitationResponse(invitation), nil
}

func (s *teamService) ListInvitations(ctx context.Context, userID, teamID uint) ([]dto.InvitationResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %d: %w", teamID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("get team: %w", err)
	}

	member, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member && team.LeaderID != userID {
		return nil, fmt.Errorf("not a member of this team: %w", apperr.ErrForbidden)
	}

	invitations, err := s.teams.ListInvitations(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	responses := make([]dto.InvitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		responses = append(responses, dto.NewInvitationResponse(invitation))
	}

	return responses, nil
}

func (s *teamService) RespondToInvitation(ctx context.Context, userID, invitationID uint, payload dto.InvitationRespondRequest) (dto.TeamResponse, error) {
	invitation, err := s.teams.GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, fmt.Errorf("invitation %d: %w", invitationID, apperr.ErrNotFound)
		}
		return dto.TeamResponse{}, fmt.Errorf("get invitation: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.TeamResponse{}, fmt.Errorf("get user: %w", err)
	}

	if !strings.EqualFold(user.Email, invitation.InviteeEmail) {
		return dto.TeamResponse{}, fmt.Errorf("invitation addressed to someone else: %w", apperr.ErrForbidden)
	}

	team, err := s.teams.GetByID(ctx, invitation.TeamID)
	if err != nil {
		return dto.TeamResponse{}, fmt.Errorf("get team: %w", err)
	}

	wanted := models.ApprovalStatusRejected
	if payload.Accept {
		wanted = models.ApprovalStatusApproved
	}

	// Responding twice with the same answer is a no-op; flipping an answer
	// is a conflict.
	if invitation.Status != models.ApprovalStatusPending {
		if invitation.Status == wanted {
			return s.withRoster(ctx, team)
		}
		return dto.TeamResponse{}, fmt.Errorf("invitation already answered: %w", apperr.ErrConflict)
	}

	if payload.Accept {
		if err := s.checkInvitee(ctx, team, user); err != nil {
			return dto.TeamResponse{}, err
		}
	}

	respondedAt := s.now()
	invitation.Status = wanted
	invitation.RespondedAt = &respondedAt
	if err := s.teams.UpdateInvitation(ctx, &invitation); err != nil {
		return dto.TeamResponse{}, fmt.Errorf("update invitation: %w", err)
	}

	if payload.Accept {
		if err := s.teams.AddMember(ctx, team.ID, userID); err != nil {
			return dto.TeamResponse{}, fmt.Errorf("add member: %w", err)
		}
	}

	team, err = s.teams.ReevaluateActivation(ctx, team.ID)
	if err != nil {
		return dto.TeamResponse{}, fmt.Errorf("reevaluate activation: %w", err)
	}

	s.logger.Info().
		Uint("team_id", team.ID).
		Uint("invitation_id", invitationID).
		Bool("accepted", payload.Accept).
		Str("team_status", team.Status).
		Msg("invitation answered")

	return s.withRoster(ctx, team)
}

func (s *teamService) Lock(ctx context.Context, userID, teamID uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, fmt.Errorf("team %d: %w", teamID, apperr.ErrNotFound)
		}
		return dto.TeamResponse{}, fmt.Errorf("get team: %w", err)
	}

	if team.LeaderID != userID {
		return dto.TeamResponse{}, fmt.Errorf("only the leader locks the roster: %w", apperr.ErrForbidden)
	}

	if team.Status != models.TeamStatusActive {
		return dto.TeamResponse{}, fmt.Errorf("only active teams can be locked: %w", apperr.ErrInvalidState)
	}

	team.Status = models.TeamStatusLocked
	if err := s.teams.Update(ctx, &team); err != nil {
		return dto.TeamResponse{}, fmt.Errorf("lock team: %w", err)
	}

	s.logger.Info().Uint("team_id", team.ID).Msg("team locked")

	return s.withRoster(ctx, team)
}

func (s *teamService) Deactivate(ctx context.Context, teamID uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, fmt.Errorf("team %d: %w", teamID, apperr.ErrNotFound)
		}
		return dto.TeamResponse{}, fmt.Errorf("get team: %w", err)
	}

	if team.Status == models.TeamStatusInactive {
		return dto.TeamResponse{}, fmt.Errorf("team already inactive: %w", apperr.ErrInvalidState)
	}

	team.Status = models.TeamStatusInactive
	if err := s.teams.Update(ctx, &team); err != nil {
		return dto.TeamResponse{}, fmt.Errorf("deactivate team: %w", err)
	}

	s.logger.Info().Uint("team_id", team.ID).Msg("team deactivated")

	return dto.NewTeamResponse(team, nil), nil
}

func (s *teamService) checkInvitee(ctx context.Context, team models.Team, invitee models.User) error {
	if !invitee.IsStudent() {
		return fmt.Errorf("only students join teams: %w", apperr.ErrForbidden)
	}

	if _, err := s.projects.GetEnrollment(ctx, team.ProjectID, invitee.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("invitee is not enrolled in the project: %w", apperr.ErrForbidden)
		}
		return fmt.Errorf("check enrollment: %w", err)
	}

	inTeam, err := s.teams.MembershipInProject(ctx, team.ProjectID, invitee.ID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if inTeam {
		return fmt.Errorf("invitee already has a team in this project: %w", apperr.ErrConflict)
	}

	return nil
}

func (s *teamService) withRoster(ctx context.Context, team models.Team) (dto.TeamResponse, error) {
	roster, err := s.teams.Members(ctx, team.ID)
	if err != nil {
		return dto.TeamResponse{}, fmt.Errorf("load roster: %w", err)
	}

	return dto.NewTeamResponse(team, roster), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/notify"
	"github.com/campushq/projectdesk-api/internal/observability"
	"github.com/campushq/projectdesk-api/internal/repository"
)

// SubmissionService handles staged uploads and the peer-approval quorum.
type SubmissionService interface {
	Upload(ctx context.Context, userID, teamID uint, payload dto.SubmissionUploadRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, userID uint, role string, submissionID uint) (dto.SubmissionResponse, error)
	ListByTeam(ctx context.Context, userID uint, role string, teamID uint) ([]dto.SubmissionResponse, error)
	Vote(ctx context.Context, userID, submissionID uint, payload dto.ApprovalVoteRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	teams       repository.TeamRepository
	notifier    notify.Notifier
	validator   *validator.Validate
	// uploadable holds the team states submissions may be uploaded from.
	uploadable []string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, teams repository.TeamRepository, notifier notify.Notifier, validate *validator.Validate, uploadable []string, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		teams:       teams,
		notifier:    notifier,
		validator:   validate,
		uploadable:  uploadable,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Upload(ctx context.Context, userID, teamID uint, payload dto.SubmissionUploadRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !models.ValidStage(payload.Stage) {
		return dto.SubmissionResponse{}, fmt.Errorf("stage %q: %w", payload.Stage, apperr.ErrInvalidArgument)
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, fmt.Errorf("team %d: %w", teamID, apperr.ErrNotFound)
		}
		return dto.SubmissionResponse{}, fmt.Errorf("get team: %w", err)
	}

	if team.LeaderID != userID {
		return dto.SubmissionResponse{}, fmt.Errorf("only the leader uploads submissions: %w", apperr.ErrForbidden)
	}

	if !team.CanUpload(s.uploadable) {
		return dto.SubmissionResponse{}, fmt.Errorf("team status %s does not allow uploads: %w", team.Status, apperr.ErrInvalidState)
	}

	roster, err := s.teams.Members(ctx, teamID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("load roster: %w", err)
	}

	// Every member except the uploader gets a vote.
	voterIDs := make([]uint, 0, len(roster))
	for _, member := range roster {
		if member.ID != userID {
			voterIDs = append(voterIDs, member.ID)
		}
	}

	submission := models.Submission{
		TeamID:     teamID,
		Stage:      payload.Stage,
		FileURL:    payload.FileURL,
		FileName:   payload.FileName,
		UploadedBy: userID,
	}
	if err := s.submissions.CreateWithApprovals(ctx, &submission, voterIDs); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("create submission: %w", err)
	}

	for _, member := range roster {
		if member.ID == userID {
			continue
		}
		s.notifier.Dispatch(ctx, notify.Intent{
			UserID:  member.ID,
			Email:   member.Email,
			Kind:    models.NotificationKindSubmissionForApproval,
			Title:   fmt.Sprintf("Submission awaiting your approval (%s)", submission.Stage),
			Message: fmt.Sprintf("Team %s uploaded %s for the %s stage. Review and cast your vote.", team.Name, submission.FileName, submission.Stage),
		})
	}

	s.logger.Info().
		Uint("team_id", teamID).
		Uint("submission_id", submission.ID).
		Str("stage", submission.Stage).
		Int("voters", len(voterIDs)).
		Msg("submission uploaded")

	approvals, err := s.submissions.ListApprovals(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("load approvals: %w", err)
	}

	return dto.NewSubmissionResponse(submission, approvals), nil
}

func (s *submissionService) Get(ctx context.Context, userID uint, role string, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, fmt.Errorf("submission %d: %w", submissionID, apperr.ErrNotFound)
		}
		return dto.SubmissionResponse{}, fmt.Errorf("get submission: %w", err)
	}

	if err := s.checkReadAccess(ctx, userID, role, submission.TeamID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	approvals, err := s.submissions.ListApprovals(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("load approvals: %w", err)
	}

	return dto.NewSubmissionResponse(submission, approvals), nil
}

func (s *submissionService) ListByTeam(ctx context.Context, userID uint, role string, teamID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %d: %w", teamID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("get team: %w", err)
	}

	if err := s.checkReadAccess(ctx, userID, role, teamID); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Vote(ctx context.Context, userID, submissionID uint, payload dto.ApprovalVoteRequest) (dto.SubmissionResponse, error) {
	if _, err := s.submissions.GetApproval(ctx, submissionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, fmt.Errorf("no vote registered for this member: %w", apperr.ErrNotFound)
		}
		return dto.SubmissionResponse{}, fmt.Errorf("get vote: %w", err)
	}

	status := models.ApprovalStatusRejected
	if payload.Approve {
		status = models.ApprovalStatusApproved
	}

	submission, err := s.submissions.RecordVote(ctx, submissionID, userID, status, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, fmt.Errorf("submission %d: %w", submissionID, apperr.ErrNotFound)
		}
		return dto.SubmissionResponse{}, fmt.Errorf("record vote: %w", err)
	}

	observability.QuorumDecisions().WithLabelValues(submission.TeamApprovalStatus).Inc()

	s.logger.Info().
		Uint("submission_id", submissionID).
		Uint("user_id", userID).
		Str("vote", status).
		Str("quorum", submission.TeamApprovalStatus).
		Msg("vote recorded")

	approvals, err := s.submissions.ListApprovals(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("load approvals: %w", err)
	}

	return dto.NewSubmissionResponse(submission, approvals), nil
}

// checkReadAccess allows staff through and requires team membership from
// students.
func (s *submissionService) checkReadAccess(ctx context.Context, userID uint, role string, teamID uint) error {
	if role == models.RoleAdmin || role == models.RoleSupervisor {
		return nil
	}

	member, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("not a member of this team: %w", apperr.ErrForbidden)
	}

	return nil
}

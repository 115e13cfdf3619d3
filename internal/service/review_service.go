package service

import (
	"context"
	"encoding/json"
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
	"github.com/campushq/projectdesk-api/internal/repository"
)

// ReviewService records supervisor and admin scoring on team-approved
// submissions. Each scorer keeps one live feedback row per submission;
// re-scoring replaces it.
type ReviewService interface {
	RecordSupervisorFeedback(ctx context.Context, supervisorID, submissionID uint, payload dto.SupervisorFeedbackRequest) (dto.FeedbackResponse, error)
	RecordAdminFeedback(ctx context.Context, adminID, submissionID uint, payload dto.AdminFeedbackRequest) (dto.FeedbackResponse, error)
	ListFeedback(ctx context.Context, submissionID uint) ([]dto.FeedbackResponse, error)
	// ListPendingReview returns the project's team-approved submissions that
	// have no supervisor score yet.
	ListPendingReview(ctx context.Context, projectID uint) ([]dto.SubmissionResponse, error)
}

// LeaderboardInvalidator drops a project's cached leaderboard after a
// feedback write so the next read reflects the new scores.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context, projectID uint)
}

type reviewService struct {
	feedback    repository.FeedbackRepository
	submissions repository.SubmissionRepository
	teams       repository.TeamRepository
	adminLogs   repository.AdminLogRepository
	notifier    notify.Notifier
	leaderboard LeaderboardInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReviewService constructs a ReviewService instance. leaderboard may be
// nil when no cache is configured.
func NewReviewService(feedback repository.FeedbackRepository, submissions repository.SubmissionRepository, teams repository.TeamRepository, adminLogs repository.AdminLogRepository, notifier notify.Notifier, leaderboard LeaderboardInvalidator, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	return &reviewService{
		feedback:    feedback,
		submissions: submissions,
		teams:       teams,
		adminLogs:   adminLogs,
		notifier:    notifier,
		leaderboard: leaderboard,
		validator:   validate,
		logger:      logger.With().Str("component", "review_service").Logger(),
		now:         time.Now,
	}
}

func (s *reviewService) invalidateLeaderboard(ctx context.Context, projectID uint) {
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx, projectID)
	}
}

func (s *reviewService) RecordSupervisorFeedback(ctx context.Context, supervisorID, submissionID uint, payload dto.SupervisorFeedbackRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if payload.Score < 0 || payload.Score > models.SupervisorScoreMax {
		return dto.FeedbackResponse{}, fmt.Errorf("supervisor score out of range: %w", apperr.ErrInvalidArgument)
	}

	submission, team, err := s.scorableSubmission(ctx, submissionID)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}

	score := payload.Score
	row, err := s.feedback.GetSupervisorRow(ctx, submissionID)
	switch {
	case err == nil:
		row.SupervisorID = &supervisorID
		row.SupervisorScore = &score
		row.Comments = payload.Comments
		row.ResubmissionDeadline = payload.ResubmissionDeadline
		if err := s.feedback.Update(ctx, &row); err != nil {
			return dto.FeedbackResponse{}, fmt.Errorf("update feedback: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.SubmissionFeedback{
			SubmissionID:         submissionID,
			SupervisorID:         &supervisorID,
			SupervisorScore:      &score,
			Comments:             payload.Comments,
			ResubmissionDeadline: payload.ResubmissionDeadline,
		}
		if err := s.feedback.Create(ctx, &row); err != nil {
			return dto.FeedbackResponse{}, fmt.Errorf("create feedback: %w", err)
		}
	default:
		return dto.FeedbackResponse{}, fmt.Errorf("get feedback: %w", err)
	}

	s.invalidateLeaderboard(ctx, team.ProjectID)

	s.notifier.Dispatch(ctx, notify.Intent{
		UserID:  team.LeaderID,
		Kind:    models.NotificationKindSupervisorFeedback,
		Title:   fmt.Sprintf("Feedback on your %s submission", submission.Stage),
		Message: fmt.Sprintf("A supervisor scored your %s submission %.1f/%.0f.", submission.Stage, score, models.SupervisorScoreMax),
	})

	s.logger.Info().
		Uint("submission_id", submissionID).
		Uint("supervisor_id", supervisorID).
		Float64("score", score).
		Msg("supervisor feedback recorded")

	return dto.NewFeedbackResponse(row), nil
}

func (s *reviewService) RecordAdminFeedback(ctx context.Context, adminID, submissionID uint, payload dto.AdminFeedbackRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if payload.Score < 0 || payload.Score > models.AdminScoreMax {
		return dto.FeedbackResponse{}, fmt.Errorf("admin score out of range: %w", apperr.ErrInvalidArgument)
	}

	_, team, err := s.scorableSubmission(ctx, submissionID)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}

	score := payload.Score
	row, err := s.feedback.GetAdminRow(ctx, submissionID)
	switch {
	case err == nil:
		row.AdminID = &adminID
		row.AdminScore = &score
		row.Comments = payload.Comments
		if err := s.feedback.Update(ctx, &row); err != nil {
			return dto.FeedbackResponse{}, fmt.Errorf("update feedback: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.SubmissionFeedback{
			SubmissionID: submissionID,
			AdminID:      &adminID,
			AdminScore:   &score,
			Comments:     payload.Comments,
		}
		if err := s.feedback.Create(ctx, &row); err != nil {
			return dto.FeedbackResponse{}, fmt.Errorf("create feedback: %w", err)
		}
	default:
		return dto.FeedbackResponse{}, fmt.Errorf("get feedback: %w", err)
	}

	s.invalidateLeaderboard(ctx, team.ProjectID)

	s.audit(ctx, adminID, "score_submission", submissionID, map[string]any{"score": score})

	s.logger.Info().
		Uint("submission_id", submissionID).
		Uint("admin_id", adminID).
		Float64("score", score).
		Msg("admin feedback recorded")

	return dto.NewFeedbackResponse(row), nil
}

func (s *reviewService) ListFeedback(ctx context.Context, submissionID uint) ([]dto.FeedbackResponse, error) {
	if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %d: %w", submissionID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	rows, err := s.feedback.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return dto.NewFeedbackResponseSlice(rows), nil
}

func (s *reviewService) ListPendingReview(ctx context.Context, projectID uint) ([]dto.SubmissionResponse, error) {
	approved, err := s.submissions.ListTeamApprovedForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list approved submissions: %w", err)
	}

	pending := make([]models.Submission, 0, len(approved))
	for _, submission := range approved {
		row, err := s.feedback.GetSupervisorRow(ctx, submission.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pending = append(pending, submission)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("check supervisor feedback: %w", err)
		}
		if row.SupervisorScore == nil {
			pending = append(pending, submission)
		}
	}

	return dto.NewSubmissionResponseSlice(pending), nil
}

// scorableSubmission loads the submission and its team. Scoring does not
// wait for the peer vote; the team-approval and review tracks run
// independently, and the pending-review queue alone filters on quorum.
func (s *reviewService) scorableSubmission(ctx context.Context, submissionID uint) (models.Submission, models.Team, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, models.Team{}, fmt.Errorf("submission %d: %w", submissionID, apperr.ErrNotFound)
		}
		return models.Submission{}, models.Team{}, fmt.Errorf("get submission: %w", err)
	}

	team, err := s.teams.GetByID(ctx, submission.TeamID)
	if err != nil {
		return models.Submission{}, models.Team{}, fmt.Errorf("get team: %w", err)
	}

	return submission, team, nil
}

func (s *reviewService) audit(ctx context.Context, adminID uint, action string, resourceID uint, details map[string]any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}

	entry := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: "submission",
		ResourceID:   &resourceID,
		Details:      string(payload),
	}
	if err := s.adminLogs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

// FeedbackRepository defines data operations for submission feedback rows.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.SubmissionFeedback) error
	Update(ctx context.Context, feedback *models.SubmissionFeedback) error
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.SubmissionFeedback, error)
	GetSupervisorRow(ctx context.Context, submissionID uint) (models.SubmissionFeedback, error)
	GetAdminRow(ctx context.Context, submissionID uint) (models.SubmissionFeedback, error)

	// SupervisorScoresByTeam returns every non-null supervisor score across
	// the team's submissions, in creation order.
	SupervisorScoresByTeam(ctx context.Context, teamID uint) ([]float64, error)
	// LatestAdminScoreByTeam returns the admin score from the most recently
	// created admin feedback row across the team's submissions, or nil.
	LatestAdminScoreByTeam(ctx context.Context, teamID uint) (*float64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository instantiates the repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.SubmissionFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *models.SubmissionFeedback) error {
	return r.db.WithContext(ctx).Save(feedback).Error
}

func (r *feedbackRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.SubmissionFeedback, error) {
	var feedbacks []models.SubmissionFeedback
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}

	return feedbacks, nil
}

func (r *feedbackRepository) GetSupervisorRow(ctx context.Context, submissionID uint) (models.SubmissionFeedback, error) {
	var feedback models.SubmissionFeedback
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("supervisor_id IS NOT NULL").
		First(&feedback).Error
	if err != nil {
		return models.SubmissionFeedback{}, err
	}

	return feedback, nil
}

func (r *feedbackRepository) GetAdminRow(ctx context.Context, submissionID uint) (models.SubmissionFeedback, error) {
	var feedback models.SubmissionFeedback
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("admin_id IS NOT NULL").
		First(&feedback).Error
	if err != nil {
		return models.SubmissionFeedback{}, err
	}

	return feedback, nil
}

func (r *feedbackRepository) SupervisorScoresByTeam(ctx context.Context, teamID uint) ([]float64, error) {
	var scores []float64
	err := r.db.WithContext(ctx).Model(&models.SubmissionFeedback{}).
		Joins("JOIN submissions ON submissions.id = submission_feedbacks.submission_id").
		Where("submissions.team_id = ?", teamID).
		Where("submission_feedbacks.supervisor_score IS NOT NULL").
		Order("submission_feedbacks.created_at ASC").
		Pluck("submission_feedbacks.supervisor_score", &scores).Error
	if err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *feedbackRepository) LatestAdminScoreByTeam(ctx context.Context, teamID uint) (*float64, error) {
	var feedback models.SubmissionFeedback
	err := r.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = submission_feedbacks.submission_id").
		Where("submissions.team_id = ?", teamID).
		Where("submission_feedbacks.admin_score IS NOT NULL").
		Order("submission_feedbacks.created_at DESC").
		First(&feedback).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return feedback.AdminScore, nil
}

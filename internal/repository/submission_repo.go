package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushq/projectdesk-api/internal/models"
)

// SubmissionRepository defines data operations for submissions and votes.
type SubmissionRepository interface {
	// CreateWithApprovals inserts the submission and one pending vote row per
	// voter in a single transaction. With no voters the submission is stored
	// team-approved immediately.
	CreateWithApprovals(ctx context.Context, submission *models.Submission, voterIDs []uint) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	ListByTeam(ctx context.Context, teamID uint) ([]models.Submission, error)
	LatestByTeamAndStage(ctx context.Context, teamID uint, stage string) (models.Submission, error)
	EarliestFinalSubmissionTime(ctx context.Context, teamID uint) (*time.Time, error)

	GetApproval(ctx context.Context, submissionID, userID uint) (models.SubmissionApproval, error)
	ListApprovals(ctx context.Context, submissionID uint) ([]models.SubmissionApproval, error)

	// RecordVote updates one member's vote and recomputes the quorum under a
	// row lock on the submission, so concurrent votes serialize and the last
	// committed state always reflects every vote.
	RecordVote(ctx context.Context, submissionID, userID uint, status string, at time.Time) (models.Submission, error)

	ListTeamApprovedForProject(ctx context.Context, projectID uint) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateWithApprovals(ctx context.Context, submission *models.Submission, voterIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(voterIDs) == 0 {
			submission.TeamApprovalStatus = models.ApprovalStatusApproved
			now := time.Now()
			submission.ApprovedAt = &now
		}

		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		for _, voterID := range voterIDs {
			approval := models.SubmissionApproval{
				SubmissionID: submission.ID,
				UserID:       voterID,
				Status:       models.ApprovalStatusPending,
			}
			if err := tx.Create(&approval).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListByTeam(ctx context.Context, teamID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) LatestByTeamAndStage(ctx context.Context, teamID uint, stage string) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Where("stage = ?", stage).
		Order("submitted_at DESC").
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) EarliestFinalSubmissionTime(ctx context.Context, teamID uint) (*time.Time, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Where("stage = ?", models.StageFinalSubmission).
		Order("submitted_at ASC").
		First(&submission).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &submission.SubmittedAt, nil
}

func (r *submissionRepository) GetApproval(ctx context.Context, submissionID, userID uint) (models.SubmissionApproval, error) {
	var approval models.SubmissionApproval
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("user_id = ?", userID).
		First(&approval).Error
	if err != nil {
		return models.SubmissionApproval{}, err
	}

	return approval, nil
}

func (r *submissionRepository) ListApprovals(ctx context.Context, submissionID uint) ([]models.SubmissionApproval, error) {
	var approvals []models.SubmissionApproval
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("id ASC").
		Find(&approvals).Error
	if err != nil {
		return nil, err
	}

	return approvals, nil
}

func (r *submissionRepository) RecordVote(ctx context.Context, submissionID, userID uint, status string, at time.Time) (models.Submission, error) {
	var submission models.Submission

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&submission, submissionID).Error; err != nil {
			return err
		}

		var approval models.SubmissionApproval
		if err := tx.Where("submission_id = ?", submissionID).
			Where("user_id = ?", userID).
			First(&approval).Error; err != nil {
			return err
		}

		approval.Status = status
		approval.RespondedAt = &at
		if err := tx.Save(&approval).Error; err != nil {
			return err
		}

		var approvals []models.SubmissionApproval
		if err := tx.Where("submission_id = ?", submissionID).Find(&approvals).Error; err != nil {
			return err
		}

		if models.QuorumApproved(approvals) && !submission.IsTeamApproved() {
			submission.TeamApprovalStatus = models.ApprovalStatusApproved
			submission.ApprovedAt = &at
			return tx.Save(&submission).Error
		}

		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListTeamApprovedForProject(ctx context.Context, projectID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Joins("JOIN teams ON teams.id = submissions.team_id").
		Where("teams.project_id = ?", projectID).
		Where("submissions.team_approval_status = ?", models.ApprovalStatusApproved).
		Order("submissions.submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

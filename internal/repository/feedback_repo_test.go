package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

func setupFeedbackDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t, &models.Submission{}, &models.SubmissionFeedback{})
}

func seedSubmission(t *testing.T, db *gorm.DB, teamID uint) models.Submission {
	t.Helper()
	submission := models.Submission{
		TeamID:             teamID,
		Stage:              models.StageFinalSubmission,
		FileURL:            "u",
		FileName:           "f",
		UploadedBy:         10,
		TeamApprovalStatus: models.ApprovalStatusApproved,
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func TestSupervisorAndAdminRowsAreSeparate(t *testing.T) {
	db := setupFeedbackDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	submission := seedSubmission(t, db, 1)

	supervisorID, adminID := uint(20), uint(30)
	supervisorScore, adminScore := 8.5, 17.0
	require.NoError(t, repo.Create(ctx, &models.SubmissionFeedback{SubmissionID: submission.ID, SupervisorID: &supervisorID, SupervisorScore: &supervisorScore, Comments: "solid"}))
	require.NoError(t, repo.Create(ctx, &models.SubmissionFeedback{SubmissionID: submission.ID, AdminID: &adminID, AdminScore: &adminScore}))

	supervisorRow, err := repo.GetSupervisorRow(ctx, submission.ID)
	require.NoError(t, err)
	require.NotNil(t, supervisorRow.SupervisorScore)
	require.Equal(t, 8.5, *supervisorRow.SupervisorScore)
	require.Nil(t, supervisorRow.AdminID)

	adminRow, err := repo.GetAdminRow(ctx, submission.ID)
	require.NoError(t, err)
	require.NotEqual(t, supervisorRow.ID, adminRow.ID)

	rows, err := repo.ListBySubmission(ctx, submission.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = repo.GetSupervisorRow(ctx, 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSupervisorScoresByTeamSpanSubmissions(t *testing.T) {
	db := setupFeedbackDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	first := seedSubmission(t, db, 1)
	second := seedSubmission(t, db, 1)
	other := seedSubmission(t, db, 2)

	supervisorID := uint(20)
	for _, pair := range []struct {
		submissionID uint
		score        float64
	}{
		{first.ID, 8},
		{second.ID, 9},
		{other.ID, 4},
	} {
		score := pair.score
		require.NoError(t, repo.Create(ctx, &models.SubmissionFeedback{SubmissionID: pair.submissionID, SupervisorID: &supervisorID, SupervisorScore: &score}))
	}

	// A comment-only row must not pollute the scores.
	require.NoError(t, repo.Create(ctx, &models.SubmissionFeedback{SubmissionID: first.ID, SupervisorID: &supervisorID, Comments: "needs work"}))

	scores, err := repo.SupervisorScoresByTeam(ctx, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, []float64{8, 9}, scores)
}

func TestLatestAdminScoreByTeam(t *testing.T) {
	db := setupFeedbackDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	submission := seedSubmission(t, db, 1)

	score, err := repo.LatestAdminScoreByTeam(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, score)

	adminID := uint(30)
	now := time.Now()
	older, newer := 12.0, 16.0
	require.NoError(t, db.Create(&models.SubmissionFeedback{SubmissionID: submission.ID, AdminID: &adminID, AdminScore: &older, CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.SubmissionFeedback{SubmissionID: submission.ID, AdminID: &adminID, AdminScore: &newer, CreatedAt: now}).Error)

	score, err = repo.LatestAdminScoreByTeam(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, score)
	require.Equal(t, 16.0, *score)
}

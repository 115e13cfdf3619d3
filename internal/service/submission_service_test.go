package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
)

type submissionFixture struct {
	users       *fakeUserRepo
	teams       *fakeTeamRepo
	submissions *fakeSubmissionRepo
	notifier    *capturedIntents
	svc         SubmissionService

	team   models.Team
	leader models.User
	alice  models.User
	bob    models.User
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	users := newFakeUserRepo()
	teams := newFakeTeamRepo(users)
	submissions := newFakeSubmissionRepo()
	notifier := &capturedIntents{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	fx := &submissionFixture{
		users:       users,
		teams:       teams,
		submissions: submissions,
		notifier:    notifier,
		svc: NewSubmissionService(submissions, teams, notifier, validate,
			[]string{models.TeamStatusActive, models.TeamStatusLocked}, testLogger()),
	}

	fx.leader = users.add(models.User{Email: "leader@uni.edu", Name: "Leader", Role: models.RoleStudent, IsActive: true})
	fx.alice = users.add(models.User{Email: "alice@uni.edu", Name: "Alice", Role: models.RoleStudent, IsActive: true})
	fx.bob = users.add(models.User{Email: "bob@uni.edu", Name: "Bob", Role: models.RoleStudent, IsActive: true})

	team := models.Team{ProjectID: 1, LeaderID: fx.leader.ID, Name: "Falcons", Status: models.TeamStatusActive}
	require.NoError(t, teams.Create(context.Background(), &team))
	require.NoError(t, teams.AddMember(context.Background(), team.ID, fx.alice.ID))
	require.NoError(t, teams.AddMember(context.Background(), team.ID, fx.bob.ID))
	fx.team = team

	return fx
}

func uploadRequest(stage string) dto.SubmissionUploadRequest {
	return dto.SubmissionUploadRequest{
		Stage:    stage,
		FileURL:  "https://files.example.com/synopsis.pdf",
		FileName: "synopsis.pdf",
	}
}

func TestUploadCreatesVoteRowsForEveryNonUploader(t *testing.T) {
	fx := newSubmissionFixture(t)

	response, err := fx.svc.Upload(context.Background(), fx.leader.ID, fx.team.ID, uploadRequest(models.StageSynopsis))
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, response.TeamApprovalStatus)
	require.Len(t, response.Approvals, 2)
	require.Len(t, fx.notifier.byKind(models.NotificationKindSubmissionForApproval), 2)
}

func TestQuorumRequiresEveryApproval(t *testing.T) {
	fx := newSubmissionFixture(t)
	ctx := context.Background()

	submission, err := fx.svc.Upload(ctx, fx.leader.ID, fx.team.ID, uploadRequest(models.StageSynopsis))
	require.NoError(t, err)

	afterFirst, err := fx.svc.Vote(ctx, fx.alice.ID, submission.ID, dto.ApprovalVoteRequest{Approve: true})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, afterFirst.TeamApprovalStatus)

	afterSecond, err := fx.svc.Vote(ctx, fx.bob.ID, submission.ID, dto.ApprovalVoteRequest{Approve: true})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, afterSecond.TeamApprovalStatus)
	require.NotNil(t, afterSecond.ApprovedAt)
}

func TestRejectionWithholdsQuorumWithoutRejectingSubmission(t *testing.T) {
	fx := newSubmissionFixture(t)
	ctx := context.Background()

	submission, err := fx.svc.Upload(ctx, fx.leader.ID, fx.team.ID, uploadRequest(models.StageProgress1))
	require.NoError(t, err)

	_, err = fx.svc.Vote(ctx, fx.alice.ID, submission.ID, dto.ApprovalVoteRequest{Approve: true})
	require.NoError(t, err)

	after, err := fx.svc.Vote(ctx, fx.bob.ID, submission.ID, dto.ApprovalVoteRequest{Approve: false})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, after.TeamApprovalStatus)

	// Flipping the rejection to an approval completes the quorum.
	final, err := fx.svc.Vote(ctx, fx.bob.ID, submission.ID, dto.ApprovalVoteRequest{Approve: true})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, final.TeamApprovalStatus)
}

func TestUploaderAndOutsidersCannotVote(t *testing.T) {
	fx := newSubmissionFixture(t)
	ctx := context.Background()

	submission, err := fx.svc.Upload(ctx, fx.leader.ID, fx.team.ID, uploadRequest(models.StageSynopsis))
	require.NoError(t, err)

	_, err = fx.svc.Vote(ctx, fx.leader.ID, submission.ID, dto.ApprovalVoteRequest{Approve: true})
	require.ErrorIs(t, err, apperr.ErrNotFound, "the uploader holds no vote row")

	outsider := fx.users.add(models.User{Email: "out@uni.edu", Role: models.RoleStudent, IsActive: true})
	_, err = fx.svc.Vote(ctx, outsider.ID, submission.ID, dto.ApprovalVoteRequest{Approve: true})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUploadWithNoVotersIsImmediatelyApproved(t *testing.T) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo(users)
	notifier := &capturedIntents{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	submissions := newFakeSubmissionRepo()
	svc := NewSubmissionService(submissions, teams, notifier, validate,
		[]string{models.TeamStatusActive, models.TeamStatusLocked}, testLogger())

	leader := users.add(models.User{Email: "solo@uni.edu", Role: models.RoleStudent, IsActive: true})
	team := models.Team{ProjectID: 1, LeaderID: leader.ID, Name: "Solo", Status: models.TeamStatusActive}
	require.NoError(t, teams.Create(context.Background(), &team))

	response, err := svc.Upload(context.Background(), leader.ID, team.ID, uploadRequest(models.StageSynopsis))
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, response.TeamApprovalStatus)
	require.NotNil(t, response.ApprovedAt)
	require.Empty(t, response.Approvals)
}

func TestUploadGuards(t *testing.T) {
	fx := newSubmissionFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Upload(ctx, fx.alice.ID, fx.team.ID, uploadRequest(models.StageSynopsis))
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = fx.svc.Upload(ctx, fx.leader.ID, fx.team.ID, uploadRequest("midterm"))
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	pending := models.Team{ProjectID: 1, LeaderID: fx.leader.ID, Name: "Forming", Status: models.TeamStatusPending}
	require.NoError(t, fx.teams.Create(ctx, &pending))
	_, err = fx.svc.Upload(ctx, fx.leader.ID, pending.ID, uploadRequest(models.StageSynopsis))
	require.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestReuploadStartsAFreshVote(t *testing.T) {
	fx := newSubmissionFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Upload(ctx, fx.leader.ID, fx.team.ID, uploadRequest(models.StageSynopsis))
	require.NoError(t, err)
	_, err = fx.svc.Vote(ctx, fx.alice.ID, first.ID, dto.ApprovalVoteRequest{Approve: true})
	require.NoError(t, err)
	_, err = fx.svc.Vote(ctx, fx.bob.ID, first.ID, dto.ApprovalVoteRequest{Approve: true})
	require.NoError(t, err)

	second, err := fx.svc.Upload(ctx, fx.leader.ID, fx.team.ID, uploadRequest(models.StageSynopsis))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, models.ApprovalStatusPending, second.TeamApprovalStatus)

	// History stays additive; both rows remain visible.
	all, err := fx.svc.ListByTeam(ctx, fx.leader.ID, models.RoleStudent, fx.team.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

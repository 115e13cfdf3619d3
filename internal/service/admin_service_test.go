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

type adminFixture struct {
	users    *fakeUserRepo
	requests *fakeSupervisorRequestRepo
	logs     *fakeAdminLogRepo
	intents  *capturedIntents
	service  AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	users := newFakeUserRepo()
	requests := newFakeSupervisorRequestRepo()
	logs := &fakeAdminLogRepo{}
	intents := &capturedIntents{}

	return &adminFixture{
		users:    users,
		requests: requests,
		logs:     logs,
		intents:  intents,
		service:  NewAdminService(requests, users, logs, intents, validator.New(validator.WithRequiredStructEnabled()), testLogger()),
	}
}

func (f *adminFixture) submit(t *testing.T, email, teacherID string) dto.SupervisorRequestResponse {
	t.Helper()
	request, err := f.service.SubmitSupervisorRequest(context.Background(), dto.SupervisorRequestCreate{
		Name:       "Dr Crane",
		Email:      email,
		Department: "CSE",
		TeacherID:  teacherID,
	})
	require.NoError(t, err)
	return request
}

func TestSubmitSupervisorRequestRejectsKnownAccounts(t *testing.T) {
	fx := newAdminFixture(t)
	fx.users.add(models.User{Email: "crane@uni.edu", Role: models.RoleStudent, IsActive: true})

	_, err := fx.service.SubmitSupervisorRequest(context.Background(), dto.SupervisorRequestCreate{
		Name:       "Dr Crane",
		Email:      "Crane@uni.edu",
		Department: "CSE",
		TeacherID:  "T-100",
	})
	require.ErrorIs(t, err, apperr.ErrConflict)

	request := fx.submit(t, "newcomer@uni.edu", "T-101")
	require.Equal(t, models.ApprovalStatusPending, request.Status)
}

func TestApproveSupervisorRequestProvisionsAccount(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()
	request := fx.submit(t, "crane@uni.edu", "T-100")

	decided, err := fx.service.ApproveSupervisorRequest(ctx, 7, request.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	require.Equal(t, uint(7), *decided.ApprovedBy)
	require.NotNil(t, decided.ApprovedDate)

	user, err := fx.users.GetByEmail(ctx, "crane@uni.edu")
	require.NoError(t, err)
	require.Equal(t, models.RoleSupervisor, user.Role)
	require.Equal(t, "T-100", user.TeacherID)
	require.Equal(t, "CSE", user.SupervisorDepartment)
	require.True(t, user.IsActive)

	require.Len(t, fx.logs.entries, 1)
	require.Equal(t, "approve_supervisor_request", fx.logs.entries[0].Action)
	require.Equal(t, uint(7), fx.logs.entries[0].AdminID)
	require.Contains(t, fx.logs.entries[0].Details, "crane@uni.edu")

	sent := fx.intents.byKind(models.NotificationKindSupervisorRequestDecision)
	require.Len(t, sent, 1)
	require.Equal(t, user.ID, sent[0].UserID)
}

func TestSupervisorRequestCannotBeDecidedTwice(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()
	request := fx.submit(t, "crane@uni.edu", "T-100")

	_, err := fx.service.ApproveSupervisorRequest(ctx, 7, request.ID)
	require.NoError(t, err)

	_, err = fx.service.ApproveSupervisorRequest(ctx, 7, request.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = fx.service.RejectSupervisorRequest(ctx, 7, request.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = fx.service.ApproveSupervisorRequest(ctx, 7, 999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRejectSupervisorRequestLeavesNoAccount(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()
	request := fx.submit(t, "crane@uni.edu", "T-100")

	decided, err := fx.service.RejectSupervisorRequest(ctx, 7, request.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusRejected, decided.Status)

	_, err = fx.users.GetByEmail(ctx, "crane@uni.edu")
	require.Error(t, err, "rejection must not create an account")

	require.Len(t, fx.logs.entries, 1)
	require.Equal(t, "reject_supervisor_request", fx.logs.entries[0].Action)
}

func TestListSupervisorRequestsFiltersByStatus(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()

	first := fx.submit(t, "a@uni.edu", "T-1")
	fx.submit(t, "b@uni.edu", "T-2")
	_, err := fx.service.ApproveSupervisorRequest(ctx, 7, first.ID)
	require.NoError(t, err)

	pending, err := fx.service.ListSupervisorRequests(ctx, models.ApprovalStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "b@uni.edu", pending[0].Email)

	approved, err := fx.service.ListSupervisorRequests(ctx, models.ApprovalStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
}

func TestAdminStatsCountsRolesAndBacklog(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()

	fx.users.add(models.User{Email: "s1@uni.edu", Role: models.RoleStudent, IsActive: true})
	fx.users.add(models.User{Email: "s2@uni.edu", Role: models.RoleStudent, IsActive: true})
	fx.users.add(models.User{Email: "root@uni.edu", Role: models.RoleAdmin, IsActive: true})
	fx.submit(t, "crane@uni.edu", "T-100")

	first := fx.submit(t, "lee@uni.edu", "T-101")
	_, err := fx.service.ApproveSupervisorRequest(ctx, 7, first.ID)
	require.NoError(t, err)

	stats, err := fx.service.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.TotalUsers)
	require.Equal(t, int64(2), stats.TotalStudents)
	require.Equal(t, int64(1), stats.TotalSupervisor)
	require.Equal(t, int64(1), stats.PendingRequests)
}

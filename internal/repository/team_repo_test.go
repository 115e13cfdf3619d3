package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func setupTeamDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t, &models.Team{}, &models.TeamMember{}, &models.TeamInvitation{}, &models.User{})
}

func TestTeamCreateSeatsTheLeader(t *testing.T) {
	db := setupTeamDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := models.Team{ProjectID: 1, LeaderID: 10, Name: "falcons", Status: models.TeamStatusPending}
	require.NoError(t, repo.Create(ctx, &team))

	isMember, err := repo.IsMember(ctx, team.ID, 10)
	require.NoError(t, err)
	require.True(t, isMember)

	members, err := repo.Members(ctx, team.ID)
	require.NoError(t, err)
	require.Empty(t, members, "roster join has no user rows yet")
}

func TestAddMemberIsIdempotent(t *testing.T) {
	db := setupTeamDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := models.Team{ProjectID: 1, LeaderID: 10, Name: "falcons", Status: models.TeamStatusPending}
	require.NoError(t, repo.Create(ctx, &team))

	require.NoError(t, repo.AddMember(ctx, team.ID, 11))
	require.NoError(t, repo.AddMember(ctx, team.ID, 11))

	var count int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestReevaluateActivationRequiresSettledInvitationsAndRoster(t *testing.T) {
	db := setupTeamDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := models.Team{ProjectID: 1, LeaderID: 10, Name: "falcons", Status: models.TeamStatusPending}
	require.NoError(t, repo.Create(ctx, &team))

	invitation := models.TeamInvitation{TeamID: team.ID, InviteeEmail: "b@uni.edu", Status: models.ApprovalStatusPending}
	require.NoError(t, repo.CreateInvitation(ctx, &invitation))

	// Outstanding invitation holds the team in pending.
	result, err := repo.ReevaluateActivation(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusPending, result.Status)

	respondedAt := time.Now()
	invitation.Status = models.ApprovalStatusApproved
	invitation.RespondedAt = &respondedAt
	require.NoError(t, repo.UpdateInvitation(ctx, &invitation))

	// Invitations settled but the leader is alone.
	result, err = repo.ReevaluateActivation(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusPending, result.Status)

	require.NoError(t, repo.AddMember(ctx, team.ID, 11))

	result, err = repo.ReevaluateActivation(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusActive, result.Status)
}

func TestReevaluateActivationLeavesNonPendingTeamsAlone(t *testing.T) {
	db := setupTeamDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := models.Team{ProjectID: 1, LeaderID: 10, Name: "falcons", Status: models.TeamStatusLocked}
	require.NoError(t, repo.Create(ctx, &team))
	require.NoError(t, repo.AddMember(ctx, team.ID, 11))

	result, err := repo.ReevaluateActivation(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusLocked, result.Status)
}

func TestPendingInvitationExistsIgnoresDecidedOnes(t *testing.T) {
	db := setupTeamDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := models.Team{ProjectID: 1, LeaderID: 10, Name: "falcons", Status: models.TeamStatusPending}
	require.NoError(t, repo.Create(ctx, &team))

	invitation := models.TeamInvitation{TeamID: team.ID, InviteeEmail: "b@uni.edu", Status: models.ApprovalStatusPending}
	require.NoError(t, repo.CreateInvitation(ctx, &invitation))

	exists, err := repo.PendingInvitationExists(ctx, team.ID, "b@uni.edu")
	require.NoError(t, err)
	require.True(t, exists)

	respondedAt := time.Now()
	invitation.Status = models.ApprovalStatusRejected
	invitation.RespondedAt = &respondedAt
	require.NoError(t, repo.UpdateInvitation(ctx, &invitation))

	exists, err = repo.PendingInvitationExists(ctx, team.ID, "b@uni.edu")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestMembershipInProjectSkipsInactiveTeams(t *testing.T) {
	db := setupTeamDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	abandoned := models.Team{ProjectID: 1, LeaderID: 10, Name: "ghosts", Status: models.TeamStatusInactive}
	require.NoError(t, repo.Create(ctx, &abandoned))

	taken, err := repo.MembershipInProject(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, taken, "inactive teams free their members for new ones")

	active := models.Team{ProjectID: 1, LeaderID: 10, Name: "falcons", Status: models.TeamStatusPending}
	require.NoError(t, repo.Create(ctx, &active))

	taken, err = repo.MembershipInProject(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = repo.MembershipInProject(ctx, 2, 10)
	require.NoError(t, err)
	require.False(t, taken, "membership is scoped per project")
}

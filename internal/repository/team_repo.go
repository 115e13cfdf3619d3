package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushq/projectdesk-api/internal/models"
)

// TeamRepository defines data operations for teams, rosters and invitations.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uint) (models.Team, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	AddMember(ctx context.Context, teamID, userID uint) error
	IsMember(ctx context.Context, teamID, userID uint) (bool, error)
	Members(ctx context.Context, teamID uint) ([]models.User, error)
	MembershipInProject(ctx context.Context, projectID, userID uint) (bool, error)

	CreateInvitation(ctx context.Context, invitation *models.TeamInvitation) error
	GetInvitation(ctx context.Context, id uint) (models.TeamInvitation, error)
	PendingInvitationExists(ctx context.Context, teamID uint, email string) (bool, error)
	ListInvitations(ctx context.Context, teamID uint) ([]models.TeamInvitation, error)
	UpdateInvitation(ctx context.Context, invitation *models.TeamInvitation) error

	// ReevaluateActivation re-runs the formation rule under a row lock on the
	// team: a PENDING team with every invitation APPROVED and a roster of at
	// least two becomes ACTIVE. Concurrent invitation responses serialize here.
	ReevaluateActivation(ctx context.Context, teamID uint) (models.Team, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := models.TeamMember{TeamID: team.ID, UserID: team.LeaderID}
		return tx.Create(&member).Error
	})
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepository) AddMember(ctx context.Context, teamID, userID uint) error {
	member := models.TeamMember{TeamID: teamID, UserID: userID}
	// Re-accepting an invitation must stay a no-op.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error
}

func (r *teamRepository) IsMember(ctx context.Context, teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) Members(ctx context.Context, teamID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.user_id = users.id").
		Where("team_members.team_id = ?", teamID).
		Order("team_members.joined_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *teamRepository) MembershipInProject(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.project_id = ?", projectID).
		Where("team_members.user_id = ?", userID).
		Where("teams.status <> ?", models.TeamStatusInactive).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) CreateInvitation(ctx context.Context, invitation *models.TeamInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *teamRepository) GetInvitation(ctx context.Context, id uint) (models.TeamInvitation, error) {
	var invitation models.TeamInvitation
	if err := r.db.WithContext(ctx).First(&invitation, id).Error; err != nil {
		return models.TeamInvitation{}, err
	}

	return invitation, nil
}

func (r *teamRepository) PendingInvitationExists(ctx context.Context, teamID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("team_id = ?", teamID).
		Where("invitee_email = ?", email).
		Where("status = ?", models.ApprovalStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) ListInvitations(ctx context.Context, teamID uint) ([]models.TeamInvitation, error) {
	var invitations []models.TeamInvitation
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("invited_at ASC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}

	return invitations, nil
}

func (r *teamRepository) UpdateInvitation(ctx context.Context, invitation *models.TeamInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

func (r *teamRepository) ReevaluateActivation(ctx context.Context, teamID uint) (models.Team, error) {
	var team models.Team

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, teamID).Error; err != nil {
			return err
		}

		if team.Status != models.TeamStatusPending {
			return nil
		}

		var pendingOrRejected int64
		if err := tx.Model(&models.TeamInvitation{}).
			Where("team_id = ?", teamID).
			Where("status <> ?", models.ApprovalStatusApproved).
			Count(&pendingOrRejected).Error; err != nil {
			return err
		}

		var roster int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ?", teamID).
			Count(&roster).Error; err != nil {
			return err
		}

		if pendingOrRejected == 0 && roster >= 2 {
			team.Status = models.TeamStatusActive
			team.UpdatedAt = time.Now()
			return tx.Save(&team).Error
		}

		return nil
	})
	if err != nil {
		return models.Team{}, err
	}

	return team, nil
}

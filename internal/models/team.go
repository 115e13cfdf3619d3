package models

import "time"

// Team lifecycle states. PENDING teams are still collecting invitation
// responses; ACTIVE teams have a settled roster of at least two; LOCKED is the
// leader's irreversible declaration that the roster is final; INACTIVE is the
// terminal state for teams whose formation was abandoned.
const (
	TeamStatusPending  = "pending"
	TeamStatusActive   = "active"
	TeamStatusLocked   = "locked"
	TeamStatusInactive = "inactive"
)

// Team belongs to exactly one project and has exactly one student leader.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	LeaderID  uint      `gorm:"not null;index" json:"leader_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Status    string    `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMember is the roster join record. The leader appears here as well.
type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// TeamInvitation tracks one leader-issued invitation addressed by email.
// At most one pending invitation may exist per (team, email).
type TeamInvitation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TeamID       uint       `gorm:"not null;index" json:"team_id"`
	InviteeEmail string     `gorm:"size:255;not null;index" json:"invitee_email"`
	Status       string     `gorm:"size:32;not null;default:pending" json:"status"`
	InvitedAt    time.Time  `gorm:"autoCreateTime" json:"invited_at"`
	RespondedAt  *time.Time `json:"responded_at"`
}

// CanUpload reports whether submissions may be uploaded given the allowed
// status set resolved from configuration.
func (t Team) CanUpload(allowed []string) bool {
	for _, status := range allowed {
		if t.Status == status {
			return true
		}
	}
	return false
}

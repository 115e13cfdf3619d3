package models

import "time"

// Notification kinds emitted by the core as intents.
const (
	NotificationKindOTP                       = "otp"
	NotificationKindTeamInvitation            = "team_invitation"
	NotificationKindSubmissionForApproval     = "submission_for_approval"
	NotificationKindSupervisorFeedback        = "supervisor_feedback"
	NotificationKindSupervisorRequestDecision = "supervisor_request_decision"
)

// Notification is the in-app record of a delivered intent.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Kind      string    `gorm:"size:64;not null" json:"kind"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// Score bounds enforced on feedback entry.
const (
	SupervisorScoreMax = 10.0
	AdminScoreMax      = 20.0
)

// SubmissionFeedback holds one scorer's live feedback for a submission.
// Supervisor and admin feedback are distinct rows distinguished by which
// scorer id is populated; an update replaces score and comments in place.
type SubmissionFeedback struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	SubmissionID         uint       `gorm:"not null;index" json:"submission_id"`
	SupervisorID         *uint      `gorm:"index" json:"supervisor_id"`
	AdminID              *uint      `gorm:"index" json:"admin_id"`
	SupervisorScore      *float64   `json:"supervisor_score"`
	AdminScore           *float64   `json:"admin_score"`
	Comments             string     `gorm:"type:text" json:"comments"`
	ResubmissionDeadline *time.Time `json:"resubmission_deadline"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

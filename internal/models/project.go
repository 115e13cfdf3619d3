package models

import "time"

// Project is a supervisor-defined project students enroll into and form teams
// for. The enrollment token is generated once and never changes for the
// lifetime of the project.
type Project struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Branch          string    `gorm:"size:128;not null" json:"branch"`
	Batch           string    `gorm:"size:64;not null" json:"batch"`
	Deadline        time.Time `gorm:"not null" json:"deadline"`
	EnrollmentToken string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	EnrollmentLink  string    `gorm:"size:512;not null" json:"enrollment_link"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProjectEnrollment records one student joining one project. Unique per
// (project, user) pair and never mutated after creation.
type ProjectEnrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_project_user" json:"project_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_enrollment_project_user" json:"user_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
}

package models

import "time"

// Role values assigned to users. Roles are fixed at creation; the only
// promotion path is an admin-approved supervisor request.
const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User represents a person known to the platform: student, supervisor or admin.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Role         string `gorm:"size:32;not null;default:student" json:"role"`
	PasswordHash string `gorm:"size:255" json:"-"`

	// Student profile fields.
	StudentID  string `gorm:"size:64;index" json:"student_id,omitempty"`
	Department string `gorm:"size:128" json:"department,omitempty"`
	Batch      string `gorm:"size:64" json:"batch,omitempty"`

	// Supervisor profile fields.
	TeacherID            string `gorm:"size:64;index" json:"teacher_id,omitempty"`
	SupervisorDepartment string `gorm:"size:128" json:"supervisor_department,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStudent reports whether the user carries the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

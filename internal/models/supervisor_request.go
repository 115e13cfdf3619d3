package models

import "time"

// SupervisorRequest is a teacher's application for supervisor access.
// Approval creates a supervisor user; the request itself is never reprocessed.
type SupervisorRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department   string     `gorm:"size:128;not null" json:"department"`
	TeacherID    string     `gorm:"size:64;uniqueIndex;not null" json:"teacher_id"`
	Status       string     `gorm:"size:32;not null;default:pending" json:"status"`
	ApprovedBy   *uint      `json:"approved_by"`
	RequestDate  time.Time  `gorm:"autoCreateTime" json:"request_date"`
	ApprovedDate *time.Time `json:"approved_date"`
}

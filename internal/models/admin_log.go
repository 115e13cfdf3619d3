package models

import "time"

// AdminLog is an append-only audit record of admin actions.
type AdminLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AdminID      uint      `gorm:"not null;index" json:"admin_id"`
	Action       string    `gorm:"size:128;not null" json:"action"`
	ResourceType string    `gorm:"size:64;not null" json:"resource_type"`
	ResourceID   *uint     `json:"resource_id"`
	Details      string    `gorm:"type:text" json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

package models

import "time"

// OTPToken is a single-use email login code. Requesting a new code purges the
// email's unused codes first, so at most one live code exists per email.
type OTPToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Code      string    `gorm:"size:16;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"not null;default:false" json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the token can still redeem a login at the given time.
func (t OTPToken) Usable(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}

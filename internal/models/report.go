package models

import "time"

// Report is an immutable complaint raised by one user against another.
// Self-reports are rejected at creation; only admins may read reports.
type Report struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Reason          string    `gorm:"type:text;not null" json:"reason"`
	ReportingUserID uint      `gorm:"not null;index" json:"reporting_user_id"`
	ReportedUserID  uint      `gorm:"not null;index" json:"reported_user_id"`
	ReportingUser   User      `gorm:"foreignKey:ReportingUserID" json:"reporting_user,omitempty"`
	ReportedUser    User      `gorm:"foreignKey:ReportedUserID" json:"reported_user,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

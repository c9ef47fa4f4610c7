// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the coarse-grained permission tier of a user.
type Role string

const (
	// RoleUser is the default tier assigned at registration.
	RoleUser Role = "User"
	// RoleAdmin grants moderation and account-management operations.
	RoleAdmin Role = "Admin"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account in the ProfileBook application.
//
// Users are hard-deleted: the deletion orchestrator removes dependent rows
// (profile, messages, reports, memberships, comments) in the same transaction,
// so a soft-delete marker would leave the store inconsistent.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'User'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

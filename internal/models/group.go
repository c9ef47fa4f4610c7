package models

import "time"

// Group is a named collection of users, managed by admins.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Members []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// GroupMembership links a user to a group. A given (group, user) pair
// appears at most once.
type GroupMembership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

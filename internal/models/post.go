package models

import "time"

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	// PostPending is the initial state of every post.
	PostPending PostStatus = "Pending"
	// PostApproved makes a post publicly visible and open to likes/comments.
	PostApproved PostStatus = "Approved"
	// PostRejected hides a post permanently.
	PostRejected PostStatus = "Rejected"
)

// CanTransitionTo reports whether a moderation transition is allowed.
// Pending may move to either terminal state. Re-applying the current
// terminal state is tolerated as a no-op; crossing between terminal
// states is not.
func (s PostStatus) CanTransitionTo(target PostStatus) bool {
	if target != PostApproved && target != PostRejected {
		return false
	}
	return s == PostPending || s == target
}

// Post represents a user post awaiting or past moderation.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	ImagePath string     `json:"image_path"`
	Status    PostStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Likes     int        `gorm:"not null;default:0" json:"likes"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

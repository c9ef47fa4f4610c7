package models

import "time"

// Message is a directed, immutable message between two distinct users.
// The sender-is-not-receiver invariant is enforced at creation.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver   User      `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

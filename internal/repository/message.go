package repository

import (
	"time"

	"profilebook/internal/models"

	"gorm.io/gorm"
)

// ConversationRow flattens a message with both participant usernames.
type ConversationRow struct {
	ID       uint      `json:"id"`
	Content  string    `json:"content"`
	Sender   string    `json:"sender"`
	Receiver string    `json:"receiver"`
	SentAt   time.Time `json:"sent_at"`
}

// MessageRepository provides access to direct messages.
type MessageRepository interface {
	Create(message *models.Message) error
	ConversationBetween(userA, userB uint) ([]ConversationRow, error)
	ListForUser(userID uint) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ConversationBetween returns the full two-way exchange between two users,
// oldest first.
func (r *messageRepository) ConversationBetween(userA, userB uint) ([]ConversationRow, error) {
	var rows []ConversationRow
	err := r.db.Table("messages").
		Select("messages.id, messages.content, s.username AS sender, r.username AS receiver, messages.created_at AS sent_at").
		Joins("JOIN users s ON s.id = messages.sender_id").
		Joins("JOIN users r ON r.id = messages.receiver_id").
		Where("(messages.sender_id = ? AND messages.receiver_id = ?) OR (messages.sender_id = ? AND messages.receiver_id = ?)",
			userA, userB, userB, userA).
		Order("messages.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []ConversationRow{}
	}
	return rows, nil
}

// ListForUser returns every message the user sent or received, newest first.
func (r *messageRepository) ListForUser(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

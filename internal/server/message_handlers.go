package server

import (
	"strings"

	"profilebook/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages/:receiverId
func (s *Server) SendMessage(c *fiber.Ctx) error {
	receiverID, err := s.parseID(c, "receiverId")
	if err != nil {
		return nil
	}
	return s.sendMessageTo(c, receiverID)
}

// SendMessageByUsername handles POST /api/messages/to/:username
func (s *Server) SendMessageByUsername(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	receiver, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.sendMessageTo(c, receiver.ID)
}

func (s *Server) sendMessageTo(c *fiber.Ctx, receiverID uint) error {
	senderID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}
	if senderID == receiverID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot send a message to yourself"))
	}

	if _, err := s.userRepo.GetByID(c.Context(), receiverID); err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message content cannot be empty"))
	}

	message := &models.Message{
		Content:    req.Content,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(message)
}

// GetMyMessages handles GET /api/messages. The inbox view: everything the
// caller sent or received, newest first.
func (s *Server) GetMyMessages(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	messages, err := s.messageRepo.ListForUser(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// GetConversation handles GET /api/messages/:otherUserId
func (s *Server) GetConversation(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "otherUserId")
	if err != nil {
		return nil
	}
	return s.conversationWith(c, otherID)
}

// GetConversationByUsername handles GET /api/messages/with/:username
func (s *Server) GetConversationByUsername(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	other, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.conversationWith(c, other.ID)
}

func (s *Server) conversationWith(c *fiber.Ctx, otherID uint) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	if _, err := s.userRepo.GetByID(c.Context(), otherID); err != nil {
		return respondServiceError(c, err)
	}

	rows, err := s.messageRepo.ConversationBetween(userID, otherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}

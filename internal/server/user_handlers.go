package server

import (
	"profilebook/internal/models"
	"profilebook/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /api/users (admin).
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.List()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id (admin).
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/users/:id (admin). Role and password changes
// are optional; demoting the last admin is rejected.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Username *string      `json:"username"`
		Password *string      `json:"password"`
		Role     *models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.UpdateUser(userID, service.UserUpdate{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id (admin). Triggers the full
// cascading deletion.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	actorID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.accountService.DeleteUser(actorID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}

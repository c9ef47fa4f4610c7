package server

import (
	"profilebook/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListGroups handles GET /api/groups (admin).
func (s *Server) ListGroups(c *fiber.Ctx) error {
	views, err := s.groupService.ListGroups()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// CreateGroup handles POST /api/groups (admin).
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// AddGroupMember handles POST /api/groups/:id/add/:userId (admin).
func (s *Server) AddGroupMember(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.groupService.AddMember(groupID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Member added",
	})
}

// RemoveGroupMember handles DELETE /api/groups/:id/remove/:userId (admin).
func (s *Server) RemoveGroupMember(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.groupService.RemoveMember(groupID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Member removed",
	})
}

// DeleteGroup handles DELETE /api/groups/:id (admin).
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.groupService.DeleteGroup(groupID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Group deleted",
	})
}

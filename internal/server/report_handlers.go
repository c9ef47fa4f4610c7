package server

import (
	"strings"

	"profilebook/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ReportUser handles POST /api/reports/:reportedUserId
func (s *Server) ReportUser(c *fiber.Ctx) error {
	reporterID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	reportedID, err := s.parseID(c, "reportedUserId")
	if err != nil {
		return nil
	}
	if reporterID == reportedID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot report yourself"))
	}

	if _, err := s.userRepo.GetByID(c.Context(), reportedID); err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Reason) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Report reason cannot be empty"))
	}

	report := &models.Report{
		Reason:          req.Reason,
		ReportingUserID: reporterID,
		ReportedUserID:  reportedID,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Report submitted",
	})
}

// GetReports handles GET /api/reports (admin).
func (s *Server) GetReports(c *fiber.Ctx) error {
	rows, err := s.reportRepo.ListDetailed()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}

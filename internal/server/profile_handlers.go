package server

import (
	"io"

	"profilebook/internal/cache"
	"profilebook/internal/models"
	"profilebook/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type profileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

// UpsertMyProfile handles POST /api/profiles. The caller's profile is
// created at registration, so this replaces its fields.
func (s *Server) UpsertMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		// Accounts created before the auto-profile rule may lack a row.
		profile = &models.Profile{UserID: userID}
		if err := s.profileRepo.Create(profile); err != nil {
			return respondServiceError(c, err)
		}
	}

	profile.FullName = req.FullName
	profile.Email = req.Email
	profile.Phone = req.Phone
	profile.Bio = req.Bio
	if err := s.profileRepo.Update(profile); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateUser(c.Context(), userID)
	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	return s.UpsertMyProfile(c)
}

// UploadProfileImage handles POST /api/profiles/me/upload-image (multipart: image).
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}
	if file.Size > storage.MaxUploadSize {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the maximum upload size"))
	}

	f, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}

	// Image bytes go to disk before the row that references them.
	path, err := s.uploads.Store(data, file.Filename)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	old := profile.ImagePath
	profile.ImagePath = path
	if err := s.profileRepo.Update(profile); err != nil {
		return respondServiceError(c, err)
	}
	if old != "" && old != path {
		_ = s.uploads.Remove(old)
	}

	cache.InvalidateUser(c.Context(), userID)
	return c.JSON(fiber.Map{
		"message":    "Image uploaded",
		"image_path": path,
	})
}

// SearchProfiles handles GET /api/profiles/search?query= (anonymous).
func (s *Server) SearchProfiles(c *fiber.Ctx) error {
	rows, err := s.profileRepo.Search(c.Query("query"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}

// ListProfiles handles GET /api/profiles (admin).
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	var profiles []models.Profile
	if err := s.db.Preload("User").Order("id").Find(&profiles).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(profiles)
}

// DeleteProfile handles DELETE /api/profiles/:id (admin). The profile row
// is cleared, not the user account.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var profile models.Profile
	if err := s.db.First(&profile, profileID).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", profileID))
	}
	if err := s.db.Delete(&models.Profile{}, profileID).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profile.ImagePath != "" {
		_ = s.uploads.Remove(profile.ImagePath)
	}

	cache.InvalidateUser(c.Context(), profile.UserID)
	return c.JSON(fiber.Map{
		"message": "Profile deleted",
	})
}

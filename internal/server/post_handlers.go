package server

import (
	"io"

	"profilebook/internal/models"
	"profilebook/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts (multipart: content, image?).
// New posts always start Pending.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	content := c.FormValue("content")

	var imagePath string
	if file, err := c.FormFile("image"); err == nil && file != nil {
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
		imagePath, err = s.uploads.Store(data, file.Filename)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	post, err := s.postService.CreatePost(userID, content, imagePath)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetAllPosts handles GET /api/posts/all (admin moderation queue).
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListAll()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetApprovedPosts handles GET /api/posts/approved (public feed).
func (s *Server) GetApprovedPosts(c *fiber.Ctx) error {
	rows, err := s.postRepo.ListApproved()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}

// GetMyPosts handles GET /api/posts/mine. Authors see their own posts in
// every moderation state.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	posts, err := s.postRepo.ListByUser(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// DeletePost handles DELETE /api/posts/:id (admin). The post's comments
// are removed with it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postRepo.Delete(postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// ApprovePost handles PUT /api/posts/approve/:id
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	return s.moderatePost(c, models.PostApproved, "Post approved")
}

// RejectPost handles PUT /api/posts/reject/:id
func (s *Server) RejectPost(c *fiber.Ctx) error {
	return s.moderatePost(c, models.PostRejected, "Post rejected")
}

func (s *Server) moderatePost(c *fiber.Ctx, target models.PostStatus, message string) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postService.Transition(postID, target); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": message,
	})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Like(postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post liked",
		"likes":   likes,
	})
}

// CommentPost handles POST /api/posts/:id/comment
func (s *Server) CommentPost(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(postID, userID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.postService.Comments(postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// SearchPosts handles GET /api/posts/search?query=
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	rows, err := s.postRepo.Search(c.Query("query"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}

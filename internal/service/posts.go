package service

import (
	"log/slog"
	"strings"

	"profilebook/internal/middleware"
	"profilebook/internal/models"
	"profilebook/internal/repository"

	"gorm.io/gorm"
)

// PostService owns post creation, the moderation state machine, and the
// approved-only gating of likes and comments.
type PostService struct {
	db    *gorm.DB
	posts repository.PostRepository
}

func NewPostService(db *gorm.DB, posts repository.PostRepository) *PostService {
	return &PostService{db: db, posts: posts}
}

// CreatePost stores a new post in Pending state.
func (s *PostService) CreatePost(userID uint, content, imagePath string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Post content cannot be empty")
	}

	post := &models.Post{
		Content:   content,
		ImagePath: imagePath,
		Status:    models.PostPending,
		UserID:    userID,
	}
	if err := s.posts.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Transition moves a post to a terminal moderation state. Re-applying the
// post's current terminal state is a no-op; crossing between Approved and
// Rejected is a conflict. The read and write share one transaction so two
// moderators cannot race each other.
func (s *PostService) Transition(postID uint, target models.PostStatus) (*models.Post, error) {
	if target != models.PostApproved && target != models.PostRejected {
		return nil, models.NewValidationError("Invalid moderation status")
	}

	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockRow(tx).First(&post, postID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		if post.Status == target {
			return nil
		}
		if !post.Status.CanTransitionTo(target) {
			return models.NewConflictError("Post has already been " + strings.ToLower(string(post.Status)))
		}

		post.Status = target
		if err := tx.Save(&post).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.ModerationTransitions.WithLabelValues(string(target)).Inc()
	middleware.Logger.Info("post moderated",
		slog.Uint64("post_id", uint64(postID)),
		slog.String("status", string(target)))
	return &post, nil
}

// Like increments the like counter of an approved post and returns the new
// count. The guard on status and the increment are one UPDATE, so the post
// can never be liked while Pending or Rejected, and concurrent likes never
// lose increments.
func (s *PostService) Like(postID uint) (int, error) {
	res := s.db.Model(&models.Post{}).
		Where("id = ? AND status = ?", postID, models.PostApproved).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Post", postID)
	}

	var post models.Post
	if err := s.db.Select("likes").First(&post, postID).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return post.Likes, nil
}

// AddComment attaches a comment to an approved post. Non-approved and
// missing posts are indistinguishable to the caller.
func (s *PostService) AddComment(postID, userID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Comment text cannot be empty")
	}

	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostApproved {
		return nil, models.NewNotFoundError("Post", postID)
	}

	comment := &models.Comment{
		Text:   text,
		UserID: userID,
		PostID: postID,
	}
	if err := s.posts.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments lists a post's comments, oldest first. Listing is not gated on
// moderation status; only liking and commenting require an approved post.
func (s *PostService) Comments(postID uint) ([]models.Comment, error) {
	if _, err := s.posts.GetByID(postID); err != nil {
		return nil, err
	}
	return s.posts.CommentsForPost(postID)
}

package repository

import (
	"strings"

	"profilebook/internal/models"

	"gorm.io/gorm"
)

// PostSearchRow is the flattened projection returned when browsing posts.
type PostSearchRow struct {
	ID        uint              `json:"id"`
	Content   string            `json:"content"`
	ImagePath string            `json:"image_path"`
	Status    models.PostStatus `json:"status"`
	Author    string            `json:"author"`
	Likes     int               `json:"likes"`
}

// PostRepository provides access to posts and their comments.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	ListAll() ([]models.Post, error)
	ListApproved() ([]PostSearchRow, error)
	Search(query string) ([]PostSearchRow, error)
	ListByUser(userID uint) ([]models.Post, error)
	Delete(id uint) error
	CreateComment(comment *models.Comment) error
	CommentsForPost(postID uint) ([]models.Comment, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListAll returns every post regardless of status, newest first.
// Moderation queue view.
func (r *postRepository) ListAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListApproved returns the public feed projection, newest first.
func (r *postRepository) ListApproved() ([]PostSearchRow, error) {
	var rows []PostSearchRow
	err := r.db.Table("posts").
		Select("posts.id, posts.content, posts.image_path, posts.status, users.username AS author, posts.likes").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.status = ?", models.PostApproved).
		Order("posts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []PostSearchRow{}
	}
	return rows, nil
}

// Search matches approved posts whose content or author username contains
// the query, case-insensitively. A blank query returns no rows.
func (r *postRepository) Search(query string) ([]PostSearchRow, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []PostSearchRow{}, nil
	}

	pattern := "%" + sanitizeLike(strings.ToLower(query)) + "%"
	var rows []PostSearchRow
	err := r.db.Table("posts").
		Select("posts.id, posts.content, posts.image_path, posts.status, users.username AS author, posts.likes").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.status = ?", models.PostApproved).
		Where(`LOWER(posts.content) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("posts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []PostSearchRow{}
	}
	return rows, nil
}

func (r *postRepository) ListByUser(userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Delete removes a post and its comments in one transaction.
func (r *postRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*models.AppError); ok {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) CreateComment(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) CommentsForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("User").Where("post_id = ?", postID).Order("created_at").Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

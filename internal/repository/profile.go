package repository

import (
	"strings"

	"profilebook/internal/models"

	"gorm.io/gorm"
)

// ProfileSearchRow is the projection returned by profile search. Users
// without a saved profile still appear, with blank profile fields.
type ProfileSearchRow struct {
	UserID    uint        `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	ProfileID uint        `json:"profile_id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Bio       string      `json:"bio"`
	ImagePath string      `json:"image_path"`
}

// SearchLimit caps profile search results.
const SearchLimit = 50

// ProfileRepository provides access to user profiles.
type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByUserID(userID uint) (*models.Profile, error)
	Update(profile *models.Profile) error
	Search(query string) ([]ProfileSearchRow, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Profile already exists for this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Profile for user", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *models.Profile) error {
	if err := r.db.Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Search matches the query against username, full name, email and phone,
// case-insensitively. A blank query returns no rows.
func (r *profileRepository) Search(query string) ([]ProfileSearchRow, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ProfileSearchRow{}, nil
	}

	pattern := "%" + sanitizeLike(strings.ToLower(query)) + "%"
	var rows []ProfileSearchRow
	err := r.db.Table("users").
		Select("users.id AS user_id, users.username, users.role, "+
			"COALESCE(profiles.id, 0) AS profile_id, "+
			"COALESCE(profiles.full_name, '') AS full_name, "+
			"COALESCE(profiles.email, '') AS email, "+
			"COALESCE(profiles.phone, '') AS phone, "+
			"COALESCE(profiles.bio, '') AS bio, "+
			"COALESCE(profiles.image_path, '') AS image_path").
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Where(`LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(profiles.full_name) LIKE ? ESCAPE '\' OR LOWER(profiles.email) LIKE ? ESCAPE '\' OR LOWER(profiles.phone) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern).
		Order("users.username").
		Limit(SearchLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []ProfileSearchRow{}
	}
	return rows, nil
}

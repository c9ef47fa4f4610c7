// Package service holds the business rules that span multiple tables and
// must commit atomically.
package service

import (
	"context"
	"log/slog"

	"profilebook/internal/cache"
	"profilebook/internal/middleware"
	"profilebook/internal/models"
	"profilebook/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountService manages registration, authentication and admin account
// operations, including the last-admin guard and cascading deletion.
type AccountService struct {
	db    *gorm.DB
	users repository.UserRepository
}

func NewAccountService(db *gorm.DB, users repository.UserRepository) *AccountService {
	return &AccountService{db: db, users: users}
}

// UserUpdate carries the optional fields an admin may change on a user.
type UserUpdate struct {
	Username *string
	Password *string
	Role     *models.Role
}

// lockRow applies a FOR UPDATE lock where the dialect supports it.
// SQLite serializes writers already, so the clause is skipped there.
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// countAdminsLocked counts admin accounts inside tx, locking the counted
// rows where the dialect supports it. Two transactions demoting different
// admins then serialize on the shared rows instead of each counting the
// other as a surviving admin. FOR UPDATE cannot be combined with an
// aggregate, so the ids are selected and counted here.
func countAdminsLocked(tx *gorm.DB) (int64, error) {
	var ids []uint
	if err := lockRow(tx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// Register creates a user with a hashed password and an empty profile in
// one transaction. Role defaults to User when not supplied; only the two
// known roles are accepted.
func (s *AccountService) Register(username, password string, role models.Role) (*models.User, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, models.NewValidationError("Username must be between 3 and 50 characters")
	}
	if len(password) < 6 {
		return nil, models.NewValidationError("Password must be at least 6 characters")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, models.NewValidationError("Unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewValidationError("Username already taken")
			}
			return models.NewInternalError(err)
		}
		// Every account gets a profile row immediately so profile reads
		// never have to handle a missing row for a live user.
		profile := &models.Profile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("user registered",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)))
	return user, nil
}

// Authenticate verifies credentials and returns the account. The same
// Unauthorized error covers unknown usernames and wrong passwords.
func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// UpdateUser applies an admin-initiated change to a user. Demoting the
// sole remaining admin is rejected; the check and the write share one
// transaction so concurrent demotions cannot race past the guard.
func (s *AccountService) UpdateUser(id uint, update UserUpdate) (*models.User, error) {
	var updated models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockRow(tx).First(&user, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}

		if update.Role != nil && *update.Role != user.Role {
			if !update.Role.Valid() {
				return models.NewValidationError("Unknown role")
			}
			if user.Role == models.RoleAdmin && *update.Role != models.RoleAdmin {
				admins, err := countAdminsLocked(tx)
				if err != nil {
					return models.NewInternalError(err)
				}
				if admins <= 1 {
					return models.NewConflictError("Cannot demote the last remaining admin")
				}
			}
			user.Role = *update.Role
		}

		if update.Username != nil && *update.Username != "" {
			if len(*update.Username) < 3 || len(*update.Username) > 50 {
				return models.NewValidationError("Username must be between 3 and 50 characters")
			}
			user.Username = *update.Username
		}

		if update.Password != nil && *update.Password != "" {
			if len(*update.Password) < 6 {
				return models.NewValidationError("Password must be at least 6 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
			if err != nil {
				return models.NewInternalError(err)
			}
			user.PasswordHash = string(hash)
		}

		if err := tx.Save(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewValidationError("Username already taken")
			}
			return models.NewInternalError(err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(context.Background(), id)
	return &updated, nil
}

// DeleteUser removes a user and all rows referencing them in one
// transaction: profile, messages in both directions, reports in both
// directions, group memberships, and comments, then the user row.
//
// Posts authored by the user are left in place with a dangling author
// reference. TODO: decide whether to delete or reassign orphaned posts.
func (s *AccountService) DeleteUser(actorID, targetID uint) error {
	if actorID == targetID {
		middleware.CascadeDeletions.WithLabelValues("rejected").Inc()
		return models.NewForbiddenError("Admins cannot delete their own account")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := lockRow(tx).First(&target, targetID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.NewNotFoundError("User", targetID)
			}
			return models.NewInternalError(err)
		}

		if target.Role == models.RoleAdmin {
			admins, err := countAdminsLocked(tx)
			if err != nil {
				return models.NewInternalError(err)
			}
			if admins <= 1 {
				return models.NewConflictError("Cannot delete the last remaining admin")
			}
		}

		steps := []*gorm.DB{
			tx.Where("user_id = ?", targetID).Delete(&models.Profile{}),
			tx.Where("sender_id = ? OR receiver_id = ?", targetID, targetID).Delete(&models.Message{}),
			tx.Where("reporting_user_id = ? OR reported_user_id = ?", targetID, targetID).Delete(&models.Report{}),
			tx.Where("user_id = ?", targetID).Delete(&models.GroupMembership{}),
			tx.Where("user_id = ?", targetID).Delete(&models.Comment{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return models.NewInternalError(step.Error)
			}
		}

		if err := tx.Delete(&models.User{}, targetID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		middleware.CascadeDeletions.WithLabelValues("failed").Inc()
		return err
	}

	cache.InvalidateUser(context.Background(), targetID)
	middleware.CascadeDeletions.WithLabelValues("completed").Inc()
	middleware.Logger.Info("user deleted",
		slog.Uint64("target_id", uint64(targetID)),
		slog.Uint64("actor_id", uint64(actorID)))
	return nil
}

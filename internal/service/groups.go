package service

import (
	"strings"

	"profilebook/internal/models"

	"gorm.io/gorm"
)

// GroupView is the membership projection returned by ListGroups.
type GroupView struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// GroupService manages groups and the (group, user) membership uniqueness
// invariant.
type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (s *GroupService) CreateGroup(name string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("Group name cannot be empty")
	}

	group := &models.Group{Name: name}
	if err := s.db.Create(group).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return group, nil
}

// AddMember inserts a membership row. The unique index on (group_id,
// user_id) backs the duplicate check, so concurrent inserts of the same
// pair cannot both succeed.
func (s *GroupService) AddMember(groupID, userID uint) error {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.NewNotFoundError("Group", groupID)
		}
		return models.NewInternalError(err)
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.NewNotFoundError("User", userID)
		}
		return models.NewInternalError(err)
	}

	membership := &models.GroupMembership{GroupID: groupID, UserID: userID}
	if err := s.db.Create(membership).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User is already a member of this group")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (s *GroupService) RemoveMember(groupID, userID uint) error {
	res := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMembership{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundMessage("Membership not found")
	}
	return nil
}

// DeleteGroup removes a group and its memberships in one transaction.
func (s *GroupService) DeleteGroup(groupID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMembership{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Delete(&models.Group{}, groupID)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Group", groupID)
		}
		return nil
	})
}

// ListGroups returns every group with its member usernames resolved
// through the membership join.
func (s *GroupService) ListGroups() ([]GroupView, error) {
	var groups []models.Group
	if err := s.db.Order("id").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	type memberRow struct {
		GroupID  uint
		Username string
	}
	var rows []memberRow
	err := s.db.Table("group_memberships").
		Select("group_memberships.group_id, users.username").
		Joins("JOIN users ON users.id = group_memberships.user_id").
		Order("users.username").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byGroup := make(map[uint][]string, len(groups))
	for _, row := range rows {
		byGroup[row.GroupID] = append(byGroup[row.GroupID], row.Username)
	}

	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		members := byGroup[g.ID]
		if members == nil {
			members = []string{}
		}
		views = append(views, GroupView{ID: g.ID, Name: g.Name, Members: members})
	}
	return views, nil
}

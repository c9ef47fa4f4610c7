package service

import (
	"testing"

	"profilebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGroupService(t *testing.T) (*GroupService, *gorm.DB) {
	db := newTestDB(t)
	return NewGroupService(db), db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateGroup(t *testing.T) {
	svc, _ := newGroupService(t)

	group, err := svc.CreateGroup("hikers")
	require.NoError(t, err)
	assert.Equal(t, "hikers", group.Name)

	_, err = svc.CreateGroup("  ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestAddMember_DuplicateConflicts(t *testing.T) {
	svc, db := newGroupService(t)
	user := createUser(t, db, "alice")
	group, err := svc.CreateGroup("hikers")
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(group.ID, user.ID))

	err = svc.AddMember(group.ID, user.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(*models.AppError).Code)
}

func TestAddMember_UnknownIDs(t *testing.T) {
	svc, db := newGroupService(t)
	user := createUser(t, db, "alice")
	group, err := svc.CreateGroup("hikers")
	require.NoError(t, err)

	err = svc.AddMember(9999, user.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	err = svc.AddMember(group.ID, 9999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

func TestRemoveMember(t *testing.T) {
	svc, db := newGroupService(t)
	user := createUser(t, db, "alice")
	group, err := svc.CreateGroup("hikers")
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(group.ID, user.ID))

	require.NoError(t, svc.RemoveMember(group.ID, user.ID))

	err = svc.RemoveMember(group.ID, user.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

func TestRemoveThenReadd(t *testing.T) {
	svc, db := newGroupService(t)
	user := createUser(t, db, "alice")
	group, err := svc.CreateGroup("hikers")
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(group.ID, user.ID))
	require.NoError(t, svc.RemoveMember(group.ID, user.ID))
	require.NoError(t, svc.AddMember(group.ID, user.ID))
}

func TestListGroups_ResolvesMembers(t *testing.T) {
	svc, db := newGroupService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	hikers, err := svc.CreateGroup("hikers")
	require.NoError(t, err)
	_, err = svc.CreateGroup("readers")
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(hikers.ID, bob.ID))
	require.NoError(t, svc.AddMember(hikers.ID, alice.ID))

	views, err := svc.ListGroups()
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "hikers", views[0].Name)
	assert.Equal(t, []string{"alice", "bob"}, views[0].Members)
	assert.Empty(t, views[1].Members)
	assert.NotNil(t, views[1].Members)
}

func TestDeleteGroup_CascadesMemberships(t *testing.T) {
	svc, db := newGroupService(t)
	user := createUser(t, db, "alice")
	group, err := svc.CreateGroup("hikers")
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(group.ID, user.ID))

	require.NoError(t, svc.DeleteGroup(group.ID))

	var count int64
	db.Model(&models.GroupMembership{}).Count(&count)
	assert.Zero(t, count)

	err = svc.DeleteGroup(group.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

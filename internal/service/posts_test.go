package service

import (
	"testing"

	"profilebook/internal/models"
	"profilebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostService(t *testing.T) (*PostService, *gorm.DB, *models.User) {
	db := newTestDB(t)
	user := &models.User{Username: "author", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return NewPostService(db, repository.NewPostRepository(db)), db, user
}

func createPost(t *testing.T, db *gorm.DB, userID uint, status models.PostStatus) *models.Post {
	t.Helper()
	post := &models.Post{Content: "hello world", Status: status, UserID: userID}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreatePost_StartsPending(t *testing.T) {
	svc, _, user := newPostService(t)

	post, err := svc.CreatePost(user.ID, "my first post", "")
	require.NoError(t, err)
	assert.Equal(t, models.PostPending, post.Status)
	assert.Zero(t, post.Likes)
}

func TestCreatePost_EmptyContent(t *testing.T) {
	svc, _, user := newPostService(t)

	_, err := svc.CreatePost(user.ID, "   ", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestTransition_PendingToTerminal(t *testing.T) {
	svc, db, user := newPostService(t)

	approved := createPost(t, db, user.ID, models.PostPending)
	post, err := svc.Transition(approved.ID, models.PostApproved)
	require.NoError(t, err)
	assert.Equal(t, models.PostApproved, post.Status)

	rejected := createPost(t, db, user.ID, models.PostPending)
	post, err = svc.Transition(rejected.ID, models.PostRejected)
	require.NoError(t, err)
	assert.Equal(t, models.PostRejected, post.Status)
}

func TestTransition_ReapplySameTerminalIsNoop(t *testing.T) {
	svc, db, user := newPostService(t)
	post := createPost(t, db, user.ID, models.PostApproved)

	result, err := svc.Transition(post.ID, models.PostApproved)
	require.NoError(t, err)
	assert.Equal(t, models.PostApproved, result.Status)
}

func TestTransition_CrossTerminalConflicts(t *testing.T) {
	svc, db, user := newPostService(t)

	approved := createPost(t, db, user.ID, models.PostApproved)
	_, err := svc.Transition(approved.ID, models.PostRejected)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(*models.AppError).Code)

	rejected := createPost(t, db, user.ID, models.PostRejected)
	_, err = svc.Transition(rejected.ID, models.PostApproved)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(*models.AppError).Code)
}

func TestTransition_UnknownPost(t *testing.T) {
	svc, _, _ := newPostService(t)

	_, err := svc.Transition(9999, models.PostApproved)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

func TestTransition_RejectsNonTerminalTarget(t *testing.T) {
	svc, db, user := newPostService(t)
	post := createPost(t, db, user.ID, models.PostApproved)

	_, err := svc.Transition(post.ID, models.PostPending)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestLike_ApprovedIncrementsByOne(t *testing.T) {
	svc, db, user := newPostService(t)
	post := createPost(t, db, user.ID, models.PostApproved)

	likes, err := svc.Like(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	likes, err = svc.Like(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)
}

func TestLike_NonApprovedIsNotFound(t *testing.T) {
	svc, db, user := newPostService(t)

	pending := createPost(t, db, user.ID, models.PostPending)
	_, err := svc.Like(pending.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	rejected := createPost(t, db, user.ID, models.PostRejected)
	_, err = svc.Like(rejected.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	_, err = svc.Like(9999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	// No like leaked onto the pending post
	var fresh models.Post
	require.NoError(t, db.First(&fresh, pending.ID).Error)
	assert.Zero(t, fresh.Likes)
}

func TestAddComment_GatedOnApproved(t *testing.T) {
	svc, db, user := newPostService(t)

	approved := createPost(t, db, user.ID, models.PostApproved)
	comment, err := svc.AddComment(approved.ID, user.ID, "nice")
	require.NoError(t, err)
	assert.Equal(t, approved.ID, comment.PostID)

	pending := createPost(t, db, user.ID, models.PostPending)
	_, err = svc.AddComment(pending.ID, user.ID, "sneaky")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	_, err = svc.AddComment(approved.ID, user.ID, "  ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestComments_ListsRegardlessOfStatus(t *testing.T) {
	svc, db, user := newPostService(t)

	approved := createPost(t, db, user.ID, models.PostApproved)
	_, err := svc.AddComment(approved.ID, user.ID, "first")
	require.NoError(t, err)
	_, err = svc.AddComment(approved.ID, user.ID, "second")
	require.NoError(t, err)

	comments, err := svc.Comments(approved.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)

	// Listing works for non-approved posts too; only the mutations are gated
	pending := createPost(t, db, user.ID, models.PostPending)
	comments, err = svc.Comments(pending.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = svc.Comments(9999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

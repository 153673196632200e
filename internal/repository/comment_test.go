package repository

import (
	"context"
	"testing"

	"newsloom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "u", "u@example.com", models.RoleUser)
	post := &models.Post{Title: "p", Content: "c", UserID: user.ID}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, repo.Create(ctx, &models.Comment{Content: "first", UserID: user.ID, PostID: post.ID}))
	require.NoError(t, repo.Create(ctx, &models.Comment{Content: "second", UserID: user.ID, PostID: post.ID}))

	comments, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, user.ID, comments[0].User.ID)
}

func TestCommentRepository_DeleteIsSoft(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "u", "u@example.com", models.RoleUser)
	post := &models.Post{Title: "p", Content: "c", UserID: user.ID}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{Content: "bye", UserID: user.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, comment))
	require.NoError(t, repo.Delete(ctx, comment.ID))

	comments, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// Row still exists under soft delete
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

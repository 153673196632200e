package service

import (
	"context"
	"strings"
	"testing"

	"newsloom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 2, Content: "hi"}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	var refreshed []uint
	posts.refreshEngagementFn = func(_ context.Context, id uint) error {
		refreshed = append(refreshed, id)
		return nil
	}

	svc := NewCommentService(noopCommentRepo(), posts, nil)
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID: 1, PostID: 2, Content: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), comment.ID)
	assert.Equal(t, []uint{2}, refreshed)
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil)
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 2})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{
		UserID: 1, PostID: 2, Content: strings.Repeat("x", 10001),
	})
	assertValidationError(t, err)
}

func TestCommentService_CreateComment_MissingPost(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewCommentService(noopCommentRepo(), posts, nil)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID: 1, PostID: 99, Content: "hi",
	})
	require.Error(t, err)
}

func TestCommentService_UpdateComment_Authorization(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 42, PostID: 2}, nil
	}

	svc := NewCommentService(comments, noopPostRepo(), nil)
	_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{
		UserID: 1, CommentID: 5, Content: "edited",
	})
	assertUnauthorizedError(t, err)
}

func TestCommentService_DeleteComment_AdminOverride(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 42, PostID: 7}, nil
	}
	var deleted bool
	comments.deleteFn = func(_ context.Context, _ uint) error { deleted = true; return nil }

	posts := noopPostRepo()
	var refreshed []uint
	posts.refreshEngagementFn = func(_ context.Context, id uint) error {
		refreshed = append(refreshed, id)
		return nil
	}

	isAdmin := func(_ context.Context, userID uint) (bool, error) { return userID == 99, nil }
	svc := NewCommentService(comments, posts, isAdmin)

	_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 5})
	assertUnauthorizedError(t, err)
	assert.False(t, deleted)

	_, err = svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 99, CommentID: 5})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []uint{7}, refreshed)
}

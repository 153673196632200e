package repository

import (
	"context"
	"testing"

	"newsloom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Ada", Email: "ada@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	// Unknown email returns nil without error
	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "dup@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "B", Email: "dup@example.com", Password: "x"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRepository_GetAdmin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// No admin yet
	admin, err := repo.GetAdmin(ctx)
	require.NoError(t, err)
	assert.Nil(t, admin)

	createTestUser(t, db, "regular", "r@example.com", models.RoleUser)
	first := createTestUser(t, db, "admin1", "a1@example.com", models.RoleAdmin)
	createTestUser(t, db, "admin2", "a2@example.com", models.RoleAdmin)

	admin, err = repo.GetAdmin(ctx)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, first.ID, admin.ID)
}

func TestUserRepository_SetInterests(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "u", "u@example.com", models.RoleUser)
	tech := createTestCategory(t, db, "Technology", "technology")
	sports := createTestCategory(t, db, "Sports", "sports")

	require.NoError(t, repo.SetInterests(ctx, user, []models.Category{*tech, *sports}))

	got, err := repo.GetByIDWithInterests(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, got.Interests, 2)

	// Replacing interests drops the old set
	require.NoError(t, repo.SetInterests(ctx, user, []models.Category{*sports}))
	got, err = repo.GetByIDWithInterests(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Interests, 1)
	assert.Equal(t, "Sports", got.Interests[0].Name)
}

func TestUserRepository_InterestsExcludeInactiveCategories(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	catRepo := NewCategoryRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "u", "u@example.com", models.RoleUser)
	tech := createTestCategory(t, db, "Technology", "technology")
	old := createTestCategory(t, db, "Old", "old")
	require.NoError(t, repo.SetInterests(ctx, user, []models.Category{*tech, *old}))

	require.NoError(t, catRepo.Deactivate(ctx, old.ID))

	got, err := repo.GetByIDWithInterests(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Interests, 1)
	assert.Equal(t, "Technology", got.Interests[0].Name)
}

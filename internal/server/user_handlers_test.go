package server

import (
	"testing"

	"newsloom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	token, userID := signupUser(t, app, "Profile", uniqueEmail("profile"))

	resp := doJSON(t, app, fiber.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Profile", user.Name)
	assert.Empty(t, user.Password)
}

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, "Before", uniqueEmail("rename"))

	resp := doJSON(t, app, fiber.MethodPut, "/api/users/me", token, fiber.Map{
		"name": "After",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.Equal(t, "After", user.Name)
}

func TestSetMyInterests(t *testing.T) {
	t.Parallel()

	srv, app := setupTestServer(t)
	token, _ := signupUser(t, app, "Curious", uniqueEmail("curious"))
	tech := createCategoryRow(t, srv, "Technology", "technology")
	science := createCategoryRow(t, srv, "Science", "science")

	resp := doJSON(t, app, fiber.MethodPut, "/api/users/me/interests", token, fiber.Map{
		"category_ids": []uint{tech.ID, science.ID},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.Len(t, user.Interests, 2)

	// Unknown category IDs are rejected wholesale
	resp = doJSON(t, app, fiber.MethodPut, "/api/users/me/interests", token, fiber.Map{
		"category_ids": []uint{tech.ID, 999},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMyDigestPrefs(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, "Digester", uniqueEmail("digester"))

	resp := doJSON(t, app, fiber.MethodPut, "/api/users/me/digest", token, fiber.Map{
		"digest_enabled":   false,
		"digest_frequency": "weekly",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.False(t, user.DigestEnabled)
	assert.Equal(t, models.DigestWeekly, user.DigestFrequency)

	resp = doJSON(t, app, fiber.MethodPut, "/api/users/me/digest", token, fiber.Map{
		"digest_enabled":   true,
		"digest_frequency": "hourly",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetUserPosts(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	token, userID := signupUser(t, app, "Author", uniqueEmail("author"))
	createPostViaAPI(t, app, token, "mine")

	resp := doJSON(t, app, fiber.MethodGet,
		"/api/users/"+itoa(userID)+"/posts", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "mine", body.Posts[0].Title)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)

	resp := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

package server

import (
	"testing"

	"newsloom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	email := uniqueEmail("alice")

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name":     "Alice",
		"email":    email,
		"password": "Str0ng&Secure!pass",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "Alice", created.User.Name)
	assert.Equal(t, models.RoleUser, created.User.Role)
	assert.Empty(t, created.User.Password)

	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": "Str0ng&Secure!pass",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var loggedIn struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &loggedIn)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	email := uniqueEmail("bob")
	signupUser(t, app, "Bob", email)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": "Wrong&Password123!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSignup_RejectsWeakPassword(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name":     "Weak",
		"email":    uniqueEmail("weak"),
		"password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	email := uniqueEmail("dup")
	signupUser(t, app, "First", email)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name":     "Second",
		"email":    email,
		"password": "Str0ng&Secure!pass",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/users/me", "not-a-real-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

package server

import (
	"context"
	"testing"

	"newsloom/internal/ingest"
	"newsloom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerStub struct {
	result  ingest.Result
	err     error
	trigger string
}

func (r *runnerStub) Run(_ context.Context, trigger string) (ingest.Result, error) {
	r.trigger = trigger
	return r.result, r.err
}

func TestAdminRoutes_RejectNonAdmins(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, "Regular", uniqueEmail("regular"))

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/ingest/run", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/admin/categories", token, fiber.Map{
		"name": "Nope",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRunIngestion_UnconfiguredReturns503(t *testing.T) {
	t.Parallel()

	srv, app := setupTestServer(t)
	token, adminID := signupUser(t, app, "Admin", uniqueEmail("admin503"))
	promoteToAdmin(t, srv, adminID)

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/ingest/run", token, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestRunIngestion_ReturnsCounters(t *testing.T) {
	t.Parallel()

	srv, app := setupTestServer(t)
	token, adminID := signupUser(t, app, "Admin", uniqueEmail("adminrun"))
	promoteToAdmin(t, srv, adminID)

	runner := &runnerStub{result: ingest.Result{Success: 4, Failed: 1}}
	srv.SetIngestRunner(runner)

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/ingest/run", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ingest.Result
	decodeBody(t, resp, &result)
	assert.Equal(t, 4, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, ingest.TriggerManual, runner.trigger)
}

func TestCategoryAdminCRUD(t *testing.T) {
	t.Parallel()

	srv, app := setupTestServer(t)
	token, adminID := signupUser(t, app, "Admin", uniqueEmail("admincat"))
	promoteToAdmin(t, srv, adminID)

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/categories", token, fiber.Map{
		"name":        "Machine Learning",
		"description": "Models and data",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Category
	decodeBody(t, resp, &created)
	assert.Equal(t, "machine-learning", created.Slug)
	assert.True(t, created.IsActive)

	resp = doJSON(t, app, fiber.MethodPut, "/api/admin/categories/1", token, fiber.Map{
		"color": "#ff8800",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Category
	decodeBody(t, resp, &updated)
	assert.Equal(t, "#ff8800", updated.Color)

	// Public listing sees the active category
	resp = doJSON(t, app, fiber.MethodGet, "/api/categories/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed struct {
		Categories []models.Category `json:"categories"`
	}
	decodeBody(t, resp, &listed)
	require.Len(t, listed.Categories, 1)

	// Deactivation hides it from browsing
	resp = doJSON(t, app, fiber.MethodDelete, "/api/admin/categories/1", token, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/categories/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &listed)
	assert.Empty(t, listed.Categories)
}

func TestGetFeatureFlags(t *testing.T) {
	t.Parallel()

	srv, app := setupTestServer(t)
	token, adminID := signupUser(t, app, "Admin", uniqueEmail("adminflags"))
	promoteToAdmin(t, srv, adminID)

	resp := doJSON(t, app, fiber.MethodGet, "/api/admin/feature-flags", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Flags map[string]string `json:"flags"`
	}
	decodeBody(t, resp, &body)
	assert.NotNil(t, body.Flags)
}

func TestGetAllUsers(t *testing.T) {
	t.Parallel()

	srv, app := setupTestServer(t)
	token, adminID := signupUser(t, app, "Admin", uniqueEmail("adminusers"))
	promoteToAdmin(t, srv, adminID)
	signupUser(t, app, "Someone", uniqueEmail("someone"))

	resp := doJSON(t, app, fiber.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Users []models.User `json:"users"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Users, 2)
}

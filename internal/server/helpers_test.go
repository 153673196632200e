package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id", humanizeParam("id"))
	assert.Equal(t, "comment id", humanizeParam("commentId"))
}

func TestParsePagination(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name string
		url  string
		want Pagination
	}{
		{name: "defaults", url: "/", want: Pagination{Limit: 20, Offset: 0}},
		{name: "explicit", url: "/?limit=5&offset=10", want: Pagination{Limit: 5, Offset: 10}},
		{name: "capped at 100", url: "/?limit=500", want: Pagination{Limit: 100}},
		{name: "garbage falls back", url: "/?limit=abc&offset=-3", want: Pagination{Limit: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.url, nil), -1)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID_InvalidWrites400(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		_, err := parseID(c, "id")
		require.ErrorIs(t, err, errResponseWritten)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/things/banana", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

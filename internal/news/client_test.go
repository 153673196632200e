package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "golang OR gophers", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"title": "Go 1.26 released",
					"description": "The latest Go release.",
					"url": "https://example.com/go-126",
					"urlToImage": "https://example.com/go.png",
					"publishedAt": "2026-08-20T10:00:00Z"
				},
				{"title": "[Removed]", "url": "https://removed.example.com"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	articles, err := client.Search(context.Background(), "golang OR gophers", 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Go 1.26 released", articles[0].Title)
	assert.Equal(t, "https://example.com/go-126", articles[0].URL)
	assert.Equal(t, 2026, articles[0].PublishedAt.Year())
}

func TestClient_SearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"too many requests"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rateLimited")
}

func TestClient_SearchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
}

package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRewriteResponse(t *testing.T) {
	t.Run("full response", func(t *testing.T) {
		raw := `TITLE: Fresh Take on Go Generics
SUMMARY: A long-form summary written in original wording about the topic.
TAGS: go, generics, Programming , `

		got, err := ParseRewriteResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Fresh Take on Go Generics", got.Title)
		assert.Equal(t, "A long-form summary written in original wording about the topic.", got.Summary)
		assert.Equal(t, []string{"go", "generics", "programming"}, got.Tags)
	})

	t.Run("missing tags is fine", func(t *testing.T) {
		got, err := ParseRewriteResponse("TITLE: T\nSUMMARY: S")
		require.NoError(t, err)
		assert.Equal(t, "T", got.Title)
		assert.Equal(t, "S", got.Summary)
		assert.Empty(t, got.Tags)
	})

	t.Run("code fences stripped", func(t *testing.T) {
		got, err := ParseRewriteResponse("```\nTITLE: T\nSUMMARY: S\n```")
		require.NoError(t, err)
		assert.Equal(t, "T", got.Title)
	})

	t.Run("missing TITLE marker fails", func(t *testing.T) {
		_, err := ParseRewriteResponse("SUMMARY: only a summary here")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("missing SUMMARY marker fails", func(t *testing.T) {
		_, err := ParseRewriteResponse("TITLE: only a title here")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("empty title fails", func(t *testing.T) {
		_, err := ParseRewriteResponse("TITLE:\nSUMMARY: S")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("markers out of order fail", func(t *testing.T) {
		_, err := ParseRewriteResponse("SUMMARY: S\nTITLE: T")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("title truncated to hard cap", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		got, err := ParseRewriteResponse("TITLE: " + long + "\nSUMMARY: S")
		require.NoError(t, err)
		assert.Len(t, []rune(got.Title), 200)
	})

	t.Run("multibyte title truncated by runes", func(t *testing.T) {
		long := strings.Repeat("ü", 250)
		got, err := ParseRewriteResponse("TITLE: " + long + "\nSUMMARY: S")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("ü", 200), got.Title)
	})
}

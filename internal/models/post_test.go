package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                           string
		likes, comments, shares, views int64
		want                           float64
	}{
		{name: "zero everything", want: 0},
		{name: "likes comments views", likes: 2, comments: 1, views: 10, want: 12},
		{name: "shares dominate", shares: 3, want: 21},
		{name: "views only", views: 100, want: 10},
		{name: "all counters", likes: 1, comments: 1, shares: 1, views: 10, want: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EngagementScore(tt.likes, tt.comments, tt.shares, tt.views), 1e-9)
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	t.Parallel()

	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

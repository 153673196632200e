package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache TTLs. Lists churn faster than single records.
const (
	UserTTL       = 5 * time.Minute
	PostTTL       = 5 * time.Minute
	ListTTL       = 30 * time.Second
	CategoriesTTL = 10 * time.Minute
	DigestTTL     = 2 * time.Minute
)

// UserKey returns the cache key for a single user.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// InvalidateUser drops the cached record for a single user.
func InvalidateUser(ctx context.Context, id uint) {
	Delete(ctx, UserKey(id))
}

// PostKey returns the cache key for a single post.
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// PostsListKey returns the cache key for a page of the post list.
// Keys encode every filter so distinct views never collide.
func PostsListKey(sort, category string, newsOnly bool, page, limit int) string {
	return fmt.Sprintf("posts:list:%s:%s:%t:%d:%d", sort, category, newsOnly, page, limit)
}

// CategoriesKey is the cache key for the active category list.
const CategoriesKey = "categories:active"

// DigestKey returns the cache key for a user's personalized digest.
func DigestKey(userID uint) string {
	return fmt.Sprintf("digest:user:%d", userID)
}

// InvalidatePost drops the cached record for a single post.
func InvalidatePost(ctx context.Context, id uint) {
	Delete(ctx, PostKey(id))
}

// InvalidatePostsList drops every cached post list page. Called after any
// write that can change list ordering or membership.
func InvalidatePostsList(ctx context.Context) {
	DeleteByPattern(ctx, "posts:list:*")
	DeleteByPattern(ctx, "digest:user:*")
}

// InvalidateCategories drops the cached category list.
func InvalidateCategories(ctx context.Context) {
	Delete(ctx, CategoriesKey)
}

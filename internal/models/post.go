package models

import (
	"time"

	"gorm.io/gorm"
)

// Post types.
const (
	PostTypeText  = "text"
	PostTypeImage = "image"
	PostTypeLink  = "link"
	PostTypeNews  = "news"
)

// Engagement score weights.
const (
	likeWeight    = 3
	commentWeight = 5
	shareWeight   = 7
	viewWeight    = 0.1
)

// Post is a user-authored or ingested piece of content.
//
// Ingested news posts carry IsNews=true and OriginalSource set to the external
// article URL. The (OriginalSource, IsNews) pair must stay unique across both
// active and soft-deleted posts; repositories enforce this with a pre-insert
// existence check rather than a database constraint.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	PostType string `gorm:"not null;default:text" json:"type"`
	ImageURL string `json:"image_url"`

	// Link metadata; for news posts this attributes the original article.
	LinkURL         string `json:"link_url,omitempty"`
	LinkTitle       string `json:"link_title,omitempty"`
	LinkDescription string `json:"link_description,omitempty"`
	LinkImage       string `json:"link_image,omitempty"`

	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user"`
	Categories []Category `gorm:"many2many:post_categories" json:"categories"`
	Tags       []string   `gorm:"serializer:json" json:"tags"`

	IsNews         bool       `gorm:"not null;default:false;index" json:"is_news"`
	OriginalSource string     `gorm:"index" json:"original_source,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`

	Shares     int64   `gorm:"not null;default:0" json:"shares"`
	Views      int64   `gorm:"not null;default:0" json:"views"`
	Engagement float64 `gorm:"not null;default:0;index" json:"engagement"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EngagementScore is the ranking score derived from interaction counters:
// likes*3 + comments*5 + shares*7 + views*0.1.
func EngagementScore(likes, comments, shares, views int64) float64 {
	return float64(likes)*likeWeight +
		float64(comments)*commentWeight +
		float64(shares)*shareWeight +
		float64(views)*viewWeight
}

package server

import (
	"context"
	"log"

	"newsloom/internal/models"
	"newsloom/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// feedPostPayload is the trimmed post representation pushed to feed
// subscribers. Clients fetch the full post over REST when needed.
type feedPostPayload struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	PostType   string   `json:"type"`
	UserID     uint     `json:"user_id"`
	IsNews     bool     `json:"is_news"`
	Tags       []string `json:"tags,omitempty"`
	Engagement float64  `json:"engagement"`
}

func toFeedPostPayload(post *models.Post) feedPostPayload {
	return feedPostPayload{
		ID:         post.ID,
		Title:      post.Title,
		PostType:   post.PostType,
		UserID:     post.UserID,
		IsNews:     post.IsNews,
		Tags:       post.Tags,
		Engagement: post.Engagement,
	}
}

// publishPostCreated pushes a new user post onto the shared feed channel.
func (s *Server) publishPostCreated(post *models.Post) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.PublishFeedEvent(context.Background(), notifications.FeedEvent{
		Type:    notifications.EventPostCreated,
		Payload: toFeedPostPayload(post),
	})
	if err != nil {
		log.Printf("failed to publish post_created event: %v", err)
	}
}

// publishNewsIngested is wired into the ingestion pipeline's OnPost hook so
// freshly ingested news reaches live feed subscribers.
func (s *Server) publishNewsIngested(post *models.Post) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.PublishFeedEvent(context.Background(), notifications.FeedEvent{
		Type:    notifications.EventNewsIngested,
		Payload: toFeedPostPayload(post),
	})
	if err != nil {
		log.Printf("failed to publish news_ingested event: %v", err)
	}
}

// publishCommentCreated notifies the post author about a new comment on
// their post. Self-comments are not announced.
func (s *Server) publishCommentCreated(c *fiber.Ctx, comment *models.Comment) {
	if s.notifier == nil {
		return
	}

	post, err := s.postRepo.GetByID(c.Context(), comment.PostID, 0)
	if err != nil {
		log.Printf("failed to load post %d for comment event: %v", comment.PostID, err)
		return
	}
	if post.UserID == comment.UserID {
		return
	}

	err = s.notifier.PublishUser(context.Background(), post.UserID, notifications.FeedEvent{
		Type: notifications.EventCommentCreated,
		Payload: fiber.Map{
			"post_id":    comment.PostID,
			"comment_id": comment.ID,
			"user_id":    comment.UserID,
		},
	})
	if err != nil {
		log.Printf("failed to publish comment_created event: %v", err)
	}
}

package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"newsloom/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	feedBroadcastChannel  = "feed:broadcast"
	feedUserChannelPrefix = "feed:user:"
)

// Feed event types pushed to WebSocket subscribers.
const (
	EventPostCreated    = "post_created"
	EventNewsIngested   = "news_ingested"
	EventCommentCreated = "comment_created"
)

// FeedEvent is the envelope for everything published on the feed channels.
type FeedEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Notifier publishes feed events into Redis channels. With a nil Redis
// client every publish is a no-op, matching the cache layer's degraded mode.
type Notifier struct {
	rdb     *redis.Client
	metrics *observability.FeedMetrics
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, metrics: observability.NewFeedMetrics()}
}

// PublishFeedEvent sends an event to every connected subscriber.
func (n *Notifier) PublishFeedEvent(ctx context.Context, event FeedEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	n.metrics.RecordEvent(event.Type)
	return n.rdb.Publish(ctx, feedBroadcastChannel, string(payload)).Err()
}

// PublishUser sends an event to a single user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event FeedEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	n.metrics.RecordEvent(event.Type)
	return n.rdb.Publish(ctx, UserChannel(userID), string(payload)).Err()
}

// StartFeedSubscriber subscribes to the feed channels and calls onMessage
// for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartFeedSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, feedUserChannelPrefix+"*", feedBroadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in FeedSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return feedUserChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(10, nil)
	require.NoError(t, err)

	assert.True(t, hub.IsOnline(10))
	assert.Equal(t, 2, hub.ConnectionCount())

	hub.UnregisterClient(clientA)
	assert.True(t, hub.IsOnline(10))

	hub.UnregisterClient(clientB)
	assert.False(t, hub.IsOnline(10))
	assert.Zero(t, hub.ConnectionCount())

	// A second unregister for the same client is a no-op.
	hub.UnregisterClient(clientB)
	assert.Zero(t, hub.ConnectionCount())
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastDeliversToUserConnections(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(3, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(4, nil)
	require.NoError(t, err)

	hub.Broadcast(3, `{"type":"comment_created"}`)

	select {
	case msg := <-clientA.Send:
		assert.JSONEq(t, `{"type":"comment_created"}`, string(msg))
	default:
		t.Fatal("expected a message for user 3")
	}
	assert.Empty(t, clientB.Send)
}

func TestHub_BroadcastAllReachesEveryone(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(3, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(4, nil)
	require.NoError(t, err)

	hub.BroadcastAll(`{"type":"news_ingested"}`)

	assert.Len(t, clientA.Send, 1)
	assert.Len(t, clientB.Send, 1)
}

func TestClient_TrySendDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(5, nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("x")
	}

	// Buffer is full: the event is dropped and a drop notice replaces it
	// as soon as there is room.
	client.TrySend([]byte("overflow"))
	assert.Len(t, client.Send, cap(client.Send))

	<-client.Send
	client.TrySend([]byte("overflow"))
	var sawDropNotice bool
	for len(client.Send) > 0 {
		msg := <-client.Send
		if string(msg) == `{"type":"events_dropped","payload":{"reason":"buffer_full"}}` {
			sawDropNotice = true
		}
	}
	assert.True(t, sawDropNotice)
}

func TestHub_WiringForwardsPublishedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	broadcastClient, err := hub.Register(20, nil)
	require.NoError(t, err)
	targetClient, err := hub.Register(21, nil)
	require.NoError(t, err)

	// The subscriber goroutine needs a moment to attach.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, notifier.PublishFeedEvent(ctx, FeedEvent{
		Type:    EventNewsIngested,
		Payload: map[string]any{"post_id": 12},
	}))
	require.NoError(t, notifier.PublishUser(ctx, 21, FeedEvent{
		Type:    EventCommentCreated,
		Payload: map[string]any{"post_id": 9},
	}))

	assert.Eventually(t, func() bool {
		return len(broadcastClient.Send) == 1 && len(targetClient.Send) == 2
	}, testEventuallyTimeout, testPollInterval)

	msg := <-broadcastClient.Send
	assert.Contains(t, string(msg), EventNewsIngested)
}

func TestNotifier_NilRedisIsNoOp(t *testing.T) {
	notifier := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, notifier.PublishFeedEvent(ctx, FeedEvent{Type: EventPostCreated}))
	assert.NoError(t, notifier.PublishUser(ctx, 1, FeedEvent{Type: EventPostCreated}))
	assert.NoError(t, notifier.StartFeedSubscriber(ctx, func(string, string) {}))
}

func TestHub_ShutdownClearsConnections(t *testing.T) {
	hub := NewHub()
	_, err := hub.Register(30, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.ConnectionCount())
	assert.False(t, hub.IsOnline(30))
}

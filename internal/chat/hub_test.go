package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneeshsrinivas/academy-api/internal/models"
)

func snapshot(contents ...string) []*models.ChatMessage {
	msgs := make([]*models.ChatMessage, len(contents))
	for i, c := range contents {
		msgs[i] = &models.ChatMessage{ChatID: "chat-1", Content: c}
	}
	return msgs
}

func TestSubscribeAndPublish(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("chat-1")
	defer sub.Close()

	hub.Publish("chat-1", snapshot("hello"))

	select {
	case msgs := <-sub.C:
		require.Len(t, msgs, 1)
		assert.Equal(t, "hello", msgs[0].Content)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestPublishIsScopedToChat(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("chat-1")
	defer sub.Close()

	hub.Publish("chat-2", snapshot("elsewhere"))

	select {
	case <-sub.C:
		t.Fatal("received a snapshot for a different chat")
	default:
	}
}

func TestPublishCoalescesLatestWins(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("chat-1")
	defer sub.Close()

	// nobody draining; both publishes must complete without blocking
	hub.Publish("chat-1", snapshot("first"))
	hub.Publish("chat-1", snapshot("first", "second"))

	msgs := <-sub.C
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[1].Content)

	select {
	case <-sub.C:
		t.Fatal("stale snapshot was not replaced")
	default:
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("chat-1")
	b := hub.Subscribe("chat-1")
	assert.Equal(t, 2, hub.SubscriberCount("chat-1"))

	a.Close()
	a.Close() // idempotent
	assert.Equal(t, 1, hub.SubscriberCount("chat-1"))

	b.Close()
	assert.Equal(t, 0, hub.SubscriberCount("chat-1"))

	// publishing to a chat with no subscribers is a no-op
	hub.Publish("chat-1", snapshot("into the void"))
}

func TestIndependentSubscribersEachGetSnapshots(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("chat-1")
	defer a.Close()
	b := hub.Subscribe("chat-1")
	defer b.Close()

	hub.Publish("chat-1", snapshot("hello"))

	for _, sub := range []*Subscription{a, b} {
		select {
		case msgs := <-sub.C:
			assert.Len(t, msgs, 1)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the snapshot")
		}
	}
}

// Package chat implements the in-process change feed behind the chat relay.
// A subscriber registers interest in one chat id and receives the full
// ordered message list on every append until it unsubscribes.
package chat

import (
	"sync"

	"github.com/aneeshsrinivas/academy-api/internal/models"
)

// Subscription delivers snapshots on C. Updates coalesce latest-wins: a slow
// consumer skips intermediate snapshots but always sees the newest one.
type Subscription struct {
	C chan []*models.ChatMessage

	hub    *Hub
	chatID string
	id     int
	once   sync.Once
}

// Close unsubscribes. Callers must invoke it on teardown; the hub holds the
// subscription until then.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.chatID, s.id)
	})
}

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]*Subscription
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*Subscription)}
}

// Subscribe registers interest in a chat id.
func (h *Hub) Subscribe(chatID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &Subscription{
		C:      make(chan []*models.ChatMessage, 1),
		hub:    h,
		chatID: chatID,
		id:     h.nextID,
	}
	if h.subs[chatID] == nil {
		h.subs[chatID] = make(map[int]*Subscription)
	}
	h.subs[chatID][sub.id] = sub
	return sub
}

// Publish pushes a snapshot to every subscriber of the chat. Never blocks:
// a full buffer is drained first so the subscriber sees the newest snapshot.
func (h *Hub) Publish(chatID string, messages []*models.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[chatID] {
		select {
		case <-sub.C:
		default:
		}
		sub.C <- messages
	}
}

// SubscriberCount reports active subscriptions for a chat.
func (h *Hub) SubscriberCount(chatID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[chatID])
}

func (h *Hub) remove(chatID string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.subs[chatID]; m != nil {
		delete(m, id)
		if len(m) == 0 {
			delete(h.subs, chatID)
		}
	}
}

package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender fails the first failures sends, then succeeds.
type recordingSender struct {
	mu       sync.Mutex
	failures int
	sent     []Message
	attempts int
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) delivered() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not reached in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestQueueDelivers(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	q.Enqueue(Message{Kind: KindWelcome, To: "priya@example.com", Subject: "Welcome"})

	waitFor(t, func() bool { return len(sender.delivered()) == 1 })
	got := sender.delivered()[0]
	assert.Equal(t, KindWelcome, got.Kind)
	assert.Equal(t, "priya@example.com", got.To)
}

func TestQueueRetriesFailedSend(t *testing.T) {
	sender := &recordingSender{failures: 2}
	q := NewQueue(sender, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	q.Enqueue(Message{Kind: KindPaymentLink, To: "priya@example.com"})

	waitFor(t, func() bool { return len(sender.delivered()) == 1 })
	sender.mu.Lock()
	attempts := sender.attempts
	sender.mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	sender := &recordingSender{failures: 100}
	q := NewQueue(sender, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	q.Enqueue(Message{Kind: KindDemoReceived, To: "priya@example.com"})

	// initial attempt plus two retries, then the message is dropped
	waitFor(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return sender.attempts == 3
	})
	time.Sleep(25 * time.Millisecond)
	sender.mu.Lock()
	assert.Equal(t, 3, sender.attempts)
	sender.mu.Unlock()
	assert.Empty(t, sender.delivered())
}

func TestEnqueueBeforeStartDrops(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, QueueConfig{})

	q.Enqueue(Message{Kind: KindWelcome, To: "priya@example.com"})

	q.Start(context.Background())
	defer q.Stop()
	time.Sleep(25 * time.Millisecond)
	assert.Empty(t, sender.delivered())
}

func TestStopWaitsForWorkers(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, QueueConfig{Workers: 3})
	q.Start(context.Background())
	q.Enqueue(Message{Kind: KindWelcome, To: "a@example.com"})
	waitFor(t, func() bool { return len(sender.delivered()) == 1 })

	q.Stop()
	q.Stop() // idempotent
	require.Len(t, sender.delivered(), 1)
}

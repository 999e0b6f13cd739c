package service

import (
	"context"
	"sync"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/chat"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"go.uber.org/zap"
)

// ChatStore is the persistence surface of the chat relay.
type ChatStore interface {
	EnsureChat(ctx context.Context, chatID, subject string) error
	AppendMessage(ctx context.Context, m *models.ChatMessage) error
	ListMessages(ctx context.Context, chatID string) ([]*models.ChatMessage, error)
}

// ChatService is a best-effort single-room broadcast primitive: append-only
// messages, full-list snapshots to live subscribers, no receipts.
type ChatService struct {
	store  ChatStore
	hub    *chat.Hub
	logger *zap.Logger
}

func NewChatService(store ChatStore, hub *chat.Hub, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, hub: hub, logger: logger}
}

// SendMessage appends one immutable message and fans the updated history out
// to live subscribers.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, senderName string, senderRole models.Role, content, fileURL string) (*models.ChatMessage, error) {
	if chatID == "" {
		return nil, apperr.Validation("chat id is required")
	}
	switch senderRole {
	case models.RoleAdmin, models.RoleCoach, models.RoleCustomer:
	default:
		return nil, apperr.Validation("invalid sender role")
	}
	if content == "" && fileURL == "" {
		return nil, apperr.Validation("message needs content or a file")
	}
	if err := s.store.EnsureChat(ctx, chatID, ""); err != nil {
		return nil, apperr.Store(err)
	}
	m := &models.ChatMessage{
		ChatID:     chatID,
		SenderID:   senderID,
		SenderName: senderName,
		SenderRole: senderRole,
		Content:    content,
		FileURL:    fileURL,
	}
	if err := s.store.AppendMessage(ctx, m); err != nil {
		return nil, apperr.Store(err)
	}
	msgs, err := s.store.ListMessages(ctx, chatID)
	if err != nil {
		// the write landed; subscribers catch up on the next append
		s.logger.Warn("chat snapshot reload failed", zap.String("chat_id", chatID), zap.Error(err))
		return m, nil
	}
	s.hub.Publish(chatID, msgs)
	return m, nil
}

// History returns the full ordered message list.
func (s *ChatService) History(ctx context.Context, chatID string) ([]*models.ChatMessage, error) {
	msgs, err := s.store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return msgs, nil
}

// ListenToMessages invokes onUpdate with the full ordered message list now
// and again on every append, until the returned unsubscribe func is called
// or ctx is done. Callers must unsubscribe on teardown.
func (s *ChatService) ListenToMessages(ctx context.Context, chatID string, onUpdate func([]*models.ChatMessage)) (func(), error) {
	msgs, err := s.store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	sub := s.hub.Subscribe(chatID)
	onUpdate(msgs)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case <-done:
				return
			case snapshot := <-sub.C:
				onUpdate(snapshot)
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sub.Close()
			close(done)
		})
	}
	return unsubscribe, nil
}

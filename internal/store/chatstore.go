package store

import (
	"context"

	"github.com/aneeshsrinivas/academy-api/internal/models"
	"gorm.io/gorm/clause"
)

/* ------------------ Chats & messages ------------------ */

// EnsureChat creates the chat row if it does not exist yet.
func (s *Store) EnsureChat(ctx context.Context, chatID, subject string) error {
	c := models.Chat{ID: chatID, Subject: subject}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error
}

// AppendMessage inserts one immutable message row.
func (s *Store) AppendMessage(ctx context.Context, m *models.ChatMessage) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

// ListMessages returns the chat's full history ordered by creation time
// ascending. No pagination; a chat room here stays small.
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]*models.ChatMessage, error) {
	var res []*models.ChatMessage
	if err := s.DB.WithContext(ctx).Where("chat_id = ?", chatID).Order("created_at asc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) GetChatByID(ctx context.Context, chatID string) (*models.Chat, error) {
	var c models.Chat
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

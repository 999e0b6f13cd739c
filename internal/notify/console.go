package notify

import (
	"context"

	"go.uber.org/zap"
)

// consoleSender logs messages instead of sending them; used in development
// and whenever no SendGrid key is configured.
type consoleSender struct {
	logger *zap.Logger
}

var _ Sender = (*consoleSender)(nil)

func NewConsoleSender(logger *zap.Logger) Sender {
	return &consoleSender{logger: logger}
}

func (s *consoleSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email (console)",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}

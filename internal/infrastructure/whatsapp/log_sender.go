package whatsapp

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogSender stands in for a WhatsApp provider: it logs each message and
// accepts it with a generated provider message id.
type LogSender struct {
	senderName string
	logger     *zap.Logger
}

// NewLogSender creates a sender that only logs
func NewLogSender(senderName string, log *zap.Logger) *LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSender{senderName: senderName, logger: log}
}

// Send logs the message and returns a provider-style message id
func (s *LogSender) Send(ctx context.Context, phone, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := "wamid." + strings.ReplaceAll(uuid.NewString(), "-", "")
	logger.WithLogger(ctx, s.logger).Info("whatsapp message sent",
		zap.String("sender", s.senderName),
		zap.String("to", maskPhone(phone)),
		zap.Int("length", len(body)),
		zap.String("provider_message_id", id))
	return id, nil
}

// maskPhone keeps the last four digits of a phone number
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// MessageRepository defines the interface for WhatsApp message persistence
type MessageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WhatsAppMessage, error)
	FindByProviderID(ctx context.Context, providerMessageID string) (*WhatsAppMessage, error)

	// FindAll supports filter keys: phone, direction, status
	FindAll(ctx context.Context, filter shared.Filter) ([]WhatsAppMessage, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, message *WhatsAppMessage) error
}

// AutoReplyRepository defines the interface for auto-reply rule persistence
type AutoReplyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AutoReply, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AutoReply, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindActive returns every active rule
	FindActive(ctx context.Context) ([]AutoReply, error)
	Save(ctx context.Context, rule *AutoReply) error
	Delete(ctx context.Context, id uuid.UUID) error
}

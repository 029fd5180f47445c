package messaging

import (
	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

const (
	AggregateTypeWhatsAppMessage = "WhatsAppMessage"

	EventTypeInboundReceived = "whatsapp.inbound_received"
)

// InboundReceivedEvent is published for every stored inbound message
type InboundReceivedEvent struct {
	shared.BaseDomainEvent
	MessageID   uuid.UUID  `json:"message_id"`
	Phone       string     `json:"phone"`
	AutoReplyID *uuid.UUID `json:"auto_reply_id,omitempty"`
}

// NewInboundReceivedEvent creates a new InboundReceivedEvent
func NewInboundReceivedEvent(m *WhatsAppMessage, autoReplyID *uuid.UUID) *InboundReceivedEvent {
	return &InboundReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInboundReceived, AggregateTypeWhatsAppMessage, m.ID),
		MessageID:       m.ID,
		Phone:           m.Phone,
		AutoReplyID:     autoReplyID,
	}
}

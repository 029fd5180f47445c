package event

import (
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/trade"
)

// RegisterAllEvents registers every domain event type with the serializer
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})

	serializer.Register(trade.EventTypeOrderCreated, &trade.OrderCreatedEvent{})
	serializer.Register(trade.EventTypeOrderConfirmed, &trade.OrderConfirmedEvent{})
	serializer.Register(trade.EventTypeOrderPaid, &trade.OrderStatusEvent{})
	serializer.Register(trade.EventTypeOrderShipped, &trade.OrderStatusEvent{})
	serializer.Register(trade.EventTypeOrderDelivered, &trade.OrderStatusEvent{})
	serializer.Register(trade.EventTypeOrderCancelled, &trade.OrderCancelledEvent{})

	serializer.Register(live.EventTypeLiveStarted, &live.LiveStreamStartedEvent{})
	serializer.Register(live.EventTypeLiveEnded, &live.LiveStreamEndedEvent{})
	serializer.Register(live.EventTypeLiveCommentOrder, &live.CommentOrderPlacedEvent{})

	serializer.Register(messaging.EventTypeInboundReceived, &messaging.InboundReceivedEvent{})
}

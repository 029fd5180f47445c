package trade

import (
	"context"
	"fmt"

	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// TextSender delivers a text message to a phone number
type TextSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// OrderNotificationHandler handles order confirmed and shipped events
// and tells the customer over WhatsApp
type OrderNotificationHandler struct {
	sender   TextSender
	template string
	logger   *zap.Logger
}

// NewOrderNotificationHandler creates a new handler for order notifications.
// template is a fmt template taking the order number and the status.
func NewOrderNotificationHandler(sender TextSender, template string, logger *zap.Logger) *OrderNotificationHandler {
	if template == "" {
		template = "Order %s is now %s."
	}
	return &OrderNotificationHandler{sender: sender, template: template, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderConfirmed, trade.EventTypeOrderShipped}
}

// Handle sends the notification for a confirmed or shipped order
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var orderNumber, phone string
	var status trade.OrderStatus
	switch e := event.(type) {
	case *trade.OrderConfirmedEvent:
		orderNumber, phone, status = e.OrderNumber, e.CustomerPhone, trade.OrderStatusConfirmed
	case *trade.OrderStatusEvent:
		orderNumber, phone, status = e.OrderNumber, e.CustomerPhone, e.Status
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	if phone == "" {
		h.logger.Info("order has no customer phone, skipping notification",
			zap.String("order_number", orderNumber),
		)
		return nil
	}

	body := fmt.Sprintf(h.template, orderNumber, status)
	if err := h.sender.SendText(ctx, phone, body); err != nil {
		h.logger.Error("failed to send order notification",
			zap.String("order_number", orderNumber),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send order notification: %w", err)
	}

	h.logger.Info("order notification sent",
		zap.String("order_number", orderNumber),
		zap.String("status", string(status)),
	)
	return nil
}

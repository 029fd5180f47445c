package trade

import (
	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name for orders
const AggregateTypeOrder = "Order"

const (
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderConfirmed = "order.confirmed"
	EventTypeOrderPaid      = "order.paid"
	EventTypeOrderShipped   = "order.shipped"
	EventTypeOrderDelivered = "order.delivered"
	EventTypeOrderCancelled = "order.cancelled"
)

// OrderItemInfo is the item payload carried by order events
type OrderItemInfo struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
}

func orderItemInfos(o *Order) []OrderItemInfo {
	items := make([]OrderItemInfo, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemInfo{ProductID: item.ProductID, SKU: item.SKU, Quantity: item.Quantity}
	}
	return items
}

// OrderCreatedEvent is published when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Source       OrderSource     `json:"source"`
	LiveStreamID *uuid.UUID      `json:"live_stream_id,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Items        []OrderItemInfo `json:"items"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Source:          o.Source,
		LiveStreamID:    o.LiveStreamID,
		Total:           o.Total,
		Items:           orderItemInfos(o),
	}
}

// OrderConfirmedEvent is published when an order is confirmed
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
	VoucherCode   string          `json:"voucher_code,omitempty"`
	Items         []OrderItemInfo `json:"items"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Total:           o.Total,
		VoucherCode:     o.VoucherCode,
		Items:           orderItemInfos(o),
	}
}

// OrderStatusEvent is published for the paid, shipped and delivered transitions
type OrderStatusEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID   `json:"order_id"`
	OrderNumber   string      `json:"order_number"`
	CustomerPhone string      `json:"customer_phone"`
	Status        OrderStatus `json:"status"`
}

// NewOrderStatusEvent creates a status transition event of the given type
func NewOrderStatusEvent(eventType string, o *Order) *OrderStatusEvent {
	return &OrderStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerPhone:   o.CustomerPhone,
		Status:          o.Status,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Reason       string          `json:"reason"`
	WasConfirmed bool            `json:"was_confirmed"`
	Items        []OrderItemInfo `json:"items"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, wasConfirmed bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Reason:          o.CancelReason,
		WasConfirmed:    wasConfirmed,
		Items:           orderItemInfos(o),
	}
}

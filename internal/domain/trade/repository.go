package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds orders matching the filter.
	// Supported filter keys: status, source, live_stream_id, user_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns the number of orders per status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// SumRevenue sums the totals of orders that have been paid
	SumRevenue(ctx context.Context) (decimal.Decimal, error)

	// Save creates or updates an order and replaces its items
	Save(ctx context.Context, order *Order) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error)

	// FindAll supports filter keys: status, method, order_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumPaidByOrder sums the amounts of paid payments for an order
	SumPaidByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, payment *Payment) error
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Shipment, error)

	// FindAll supports filter keys: status, order_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Shipment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, shipment *Shipment) error
}

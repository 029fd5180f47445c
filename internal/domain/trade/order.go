package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// AllOrderStatuses returns every order status in lifecycle order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderSource tells where an order was placed
type OrderSource string

const (
	OrderSourceAdmin OrderSource = "admin"
	OrderSourceLive  OrderSource = "live"
)

// IsValid checks if the source is known
func (s OrderSource) IsValid() bool {
	return s == OrderSourceAdmin || s == OrderSourceLive
}

// MaxItemQuantity caps the quantity of a single order line
const MaxItemQuantity = 999

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	SKU         string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// Customer holds the buyer details captured on an order
type Customer struct {
	UserID  *uuid.UUID
	Name    string
	Phone   string
	Address string
}

// Order represents a customer order aggregate root
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	UserID          *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	Source          OrderSource
	LiveStreamID    *uuid.UUID
	Items           []OrderItem
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	ShippingFee     decimal.Decimal
	Total           decimal.Decimal
	VoucherCode     string
	Status          OrderStatus
	Note            string
	ConfirmedAt     *time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewOrder creates a new pending order
func NewOrder(orderNumber string, customer Customer, source OrderSource) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", fmt.Sprintf("Unknown order source %q", source))
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            customer.UserID,
		CustomerName:      strings.TrimSpace(customer.Name),
		CustomerPhone:     customer.Phone,
		ShippingAddress:   customer.Address,
		Source:            source,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		ShippingFee:       decimal.Zero,
		Total:             decimal.Zero,
		Status:            OrderStatusPending,
	}

	return order, nil
}

// AttachLiveStream links the order to the live stream it was placed in
func (o *Order) AttachLiveStream(streamID uuid.UUID) {
	o.LiveStreamID = &streamID
	o.Source = OrderSourceLive
}

// AddItem adds a line to a pending order; a repeated product merges into the existing line
func (o *Order) AddItem(productID uuid.UUID, sku, name string, unitPrice decimal.Decimal, qty int) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty <= 0 || qty > MaxItemQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity must be between 1 and %d", MaxItemQuantity))
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			newQty := o.Items[i].Quantity + qty
			if newQty > MaxItemQuantity {
				return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity must be between 1 and %d", MaxItemQuantity))
			}
			o.Items[i].Quantity = newQty
			o.Items[i].Subtotal = o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(newQty)))
			o.recalculateTotals()
			return nil
		}
	}

	o.Items = append(o.Items, OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		SKU:         sku,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	})
	o.recalculateTotals()
	return nil
}

// SetShippingFee sets the shipping fee on a pending order
func (o *Order) SetShippingFee(fee decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Shipping fee can only be changed on a pending order")
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Shipping fee cannot be negative")
	}
	o.ShippingFee = fee
	o.recalculateTotals()
	return nil
}

// ApplyDiscount applies a voucher discount to a pending order.
// The discount is capped at the subtotal and only one voucher may be applied.
func (o *Order) ApplyDiscount(voucherCode string, amount decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Discount can only be applied to a pending order")
	}
	if o.VoucherCode != "" {
		return shared.NewDomainError("VOUCHER_ALREADY_APPLIED", "A voucher has already been applied to this order")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount cannot be negative")
	}
	if amount.GreaterThan(o.Subtotal) {
		amount = o.Subtotal
	}
	o.VoucherCode = voucherCode
	o.Discount = amount
	o.recalculateTotals()
	return nil
}

// Place finalizes a new order once its lines are added and records the creation event
func (o *Order) Place() error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending order can be placed")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return nil
}

// SetNote sets a free-form note
func (o *Order) SetNote(note string) {
	o.Note = note
	o.UpdatedAt = time.Now()
}

// Confirm confirms the order, transitioning from PENDING to CONFIRMED.
// Stock deduction is handled by the application service.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderConfirmedEvent(o))
	return nil
}

// MarkPaid records full payment of a confirmed order
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order paid in %s status", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusEvent(EventTypeOrderPaid, o))
	return nil
}

// MarkShipped records that the order left the warehouse
func (o *Order) MarkShipped() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusEvent(EventTypeOrderShipped, o))
	return nil
}

// MarkDelivered records that the customer received the order
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusEvent(EventTypeOrderDelivered, o))
	return nil
}

// Cancel cancels the order.
// Allowed only in PENDING or CONFIRMED status; a confirmed order's stock
// is restored by the application service.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasConfirmed := o.Status == OrderStatusConfirmed
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.touch(now)

	o.AddDomainEvent(NewOrderCancelledEvent(o, wasConfirmed))
	return nil
}

// IsTerminal returns true if the order can no longer change
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of quantities over all lines
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	o.Subtotal = subtotal
	if o.Discount.GreaterThan(o.Subtotal) {
		o.Discount = o.Subtotal
	}
	o.Total = o.Subtotal.Sub(o.Discount).Add(o.ShippingFee)
	o.UpdatedAt = time.Now()
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = now
	o.IncrementVersion()
}

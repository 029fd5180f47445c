package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ListParams are the paging and sorting query parameters shared by list endpoints
type ListParams struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (p ListParams) filter() shared.Filter {
	f := shared.DefaultFilter()
	if p.Page > 0 {
		f.Page = p.Page
	}
	if p.PageSize > 0 {
		f.PageSize = p.PageSize
	}
	if p.OrderBy != "" {
		f.OrderBy = p.OrderBy
	}
	if p.OrderDir != "" {
		f.OrderDir = p.OrderDir
	}
	f.Search = strings.TrimSpace(p.Search)
	return f
}

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// CreateOrderRequest represents a request to create an order from the back office
type CreateOrderRequest struct {
	UserID          *uuid.UUID       `json:"user_id"`
	CustomerName    string           `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerPhone   string           `json:"customer_phone" binding:"max=20"`
	ShippingAddress string           `json:"shipping_address" binding:"max=1000"`
	ShippingFee     *decimal.Decimal `json:"shipping_fee" swaggertype:"string" example:"15000"`
	Note            string           `json:"note" binding:"max=1000"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,max=100,dive"`
}

// LiveOrderInput describes an order placed from a live-stream comment
type LiveOrderInput struct {
	StreamID  uuid.UUID
	UserID    uuid.UUID
	Name      string
	Phone     string
	ProductID uuid.UUID
	Quantity  int
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// VoucherRedemption names a live-stream voucher to redeem on confirmation
type VoucherRedemption struct {
	StreamID uuid.UUID
	Code     string
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	ListParams
	Status       string     `form:"status" binding:"omitempty,oneof=pending confirmed paid shipped delivered cancelled"`
	Source       string     `form:"source" binding:"omitempty,oneof=admin live"`
	LiveStreamID *uuid.UUID `form:"live_stream_id"`
	UserID       *uuid.UUID `form:"user_id"`
}

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	ShippingAddress string              `json:"shipping_address"`
	Source          string              `json:"source"`
	LiveStreamID    *uuid.UUID          `json:"live_stream_id,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal" swaggertype:"string"`
	Discount        decimal.Decimal     `json:"discount" swaggertype:"string"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee" swaggertype:"string"`
	Total           decimal.Decimal     `json:"total" swaggertype:"string"`
	VoucherCode     string              `json:"voucher_code,omitempty"`
	Status          string              `json:"status"`
	Note            string              `json:"note,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Source:          string(o.Source),
		LiveStreamID:    o.LiveStreamID,
		Items:           items,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		ShippingFee:     o.ShippingFee,
		Total:           o.Total,
		VoucherCode:     o.VoucherCode,
		Status:          string(o.Status),
		Note:            o.Note,
		CancelReason:    o.CancelReason,
		ConfirmedAt:     o.ConfirmedAt,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// CreatePaymentRequest records a payment against an order
type CreatePaymentRequest struct {
	OrderID   uuid.UUID       `json:"order_id" binding:"required"`
	Method    string          `json:"method" binding:"required,oneof=bank_transfer cash ewallet card"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"250000"`
	Reference string          `json:"reference" binding:"max=100"`
	Note      string          `json:"note" binding:"max=500"`
}

// MarkPaymentPaidRequest settles a pending payment
type MarkPaymentPaidRequest struct {
	Reference string `json:"reference" binding:"max=100"`
}

// MarkPaymentFailedRequest records a failed payment
type MarkPaymentFailedRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RefundPaymentRequest refunds a settled payment
type RefundPaymentRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	ListParams
	Status  string     `form:"status" binding:"omitempty,oneof=pending paid failed refunded"`
	Method  string     `form:"method" binding:"omitempty,oneof=bank_transfer cash ewallet card"`
	OrderID *uuid.UUID `form:"order_id"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	Status        string          `json:"status"`
	Reference     string          `json:"reference,omitempty"`
	Note          string          `json:"note,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *trade.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        string(p.Method),
		Amount:        p.Amount,
		Status:        string(p.Status),
		Reference:     p.Reference,
		Note:          p.Note,
		FailureReason: p.FailureReason,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// CreateShipmentRequest creates a shipment for a paid order. Address
// defaults to the order's shipping address.
type CreateShipmentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Courier string    `json:"courier" binding:"required,min=1,max=100"`
	Address string    `json:"address" binding:"max=1000"`
}

// ShipShipmentRequest hands a shipment to the courier
type ShipShipmentRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,min=1,max=100"`
}

// ShipmentListFilter represents filter options for the shipment list
type ShipmentListFilter struct {
	ListParams
	Status  string     `form:"status" binding:"omitempty,oneof=pending shipped delivered"`
	OrderID *uuid.UUID `form:"order_id"`
}

// ShipmentResponse represents a shipment in API responses
type ShipmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrderID        uuid.UUID  `json:"order_id"`
	Courier        string     `json:"courier"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Address        string     `json:"address"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToShipmentResponse converts a domain Shipment to ShipmentResponse
func ToShipmentResponse(s *trade.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             s.ID,
		OrderID:        s.OrderID,
		Courier:        s.Courier,
		TrackingNumber: s.TrackingNumber,
		Address:        s.Address,
		Status:         string(s.Status),
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

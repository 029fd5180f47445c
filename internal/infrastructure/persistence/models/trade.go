package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for orders. Items are stored in
// order_items and loaded separately.
type OrderModel struct {
	AggregateModel
	OrderNumber     string            `gorm:"type:varchar(32);not null;uniqueIndex"`
	UserID          *uuid.UUID        `gorm:"type:uuid;index"`
	CustomerName    string            `gorm:"type:varchar(100);not null"`
	CustomerPhone   string            `gorm:"type:varchar(20);index"`
	ShippingAddress string            `gorm:"type:text"`
	Source          trade.OrderSource `gorm:"type:varchar(10);not null;index"`
	LiveStreamID    *uuid.UUID        `gorm:"type:uuid;index"`
	Subtotal        decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Discount        decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingFee     decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Total           decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	VoucherCode     string            `gorm:"type:varchar(32)"`
	Status          trade.OrderStatus `gorm:"type:varchar(20);not null;index"`
	Note            string            `gorm:"type:text"`
	ConfirmedAt     *time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel is a line of an order
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"column:sku;type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// ToDomain converts the order row and its item rows into an aggregate
func (m *OrderModel) ToDomain(items []OrderItemModel) *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.toDomain(),
		OrderNumber:       m.OrderNumber,
		UserID:            m.UserID,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		ShippingAddress:   m.ShippingAddress,
		Source:            m.Source,
		LiveStreamID:      m.LiveStreamID,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		ShippingFee:       m.ShippingFee,
		Total:             m.Total,
		VoucherCode:       m.VoucherCode,
		Status:            m.Status,
		Note:              m.Note,
		ConfirmedAt:       m.ConfirmedAt,
		PaidAt:            m.PaidAt,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Items:             make([]trade.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		o.Items = append(o.Items, trade.OrderItem{
			ID:          it.ID,
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return o
}

// OrderModelFromDomain splits an order aggregate into its row and item rows
func OrderModelFromDomain(o *trade.Order) (*OrderModel, []OrderItemModel) {
	m := &OrderModel{
		AggregateModel:  aggregateFromDomain(o.BaseAggregateRoot),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Source:          o.Source,
		LiveStreamID:    o.LiveStreamID,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		ShippingFee:     o.ShippingFee,
		Total:           o.Total,
		VoucherCode:     o.VoucherCode,
		Status:          o.Status,
		Note:            o.Note,
		ConfirmedAt:     o.ConfirmedAt,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
	}
	items := make([]OrderItemModel, 0, len(o.Items))
	for i, it := range o.Items {
		id := it.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		items = append(items, OrderItemModel{
			ID:          id,
			OrderID:     o.ID,
			Position:    i,
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return m, items
}

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	AggregateModel
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Method        trade.PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status        trade.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	Reference     string              `gorm:"type:varchar(100)"`
	Note          string              `gorm:"type:text"`
	FailureReason string              `gorm:"type:varchar(500)"`
	PaidAt        *time.Time
	RefundedAt    *time.Time
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) ToDomain() *trade.Payment {
	return &trade.Payment{
		BaseAggregateRoot: m.toDomain(),
		OrderID:           m.OrderID,
		Method:            m.Method,
		Amount:            m.Amount,
		Status:            m.Status,
		Reference:         m.Reference,
		Note:              m.Note,
		FailureReason:     m.FailureReason,
		PaidAt:            m.PaidAt,
		RefundedAt:        m.RefundedAt,
	}
}

func PaymentModelFromDomain(p *trade.Payment) *PaymentModel {
	return &PaymentModel{
		AggregateModel: aggregateFromDomain(p.BaseAggregateRoot),
		OrderID:        p.OrderID,
		Method:         p.Method,
		Amount:         p.Amount,
		Status:         p.Status,
		Reference:      p.Reference,
		Note:           p.Note,
		FailureReason:  p.FailureReason,
		PaidAt:         p.PaidAt,
		RefundedAt:     p.RefundedAt,
	}
}

// ShipmentModel is the persistence model for shipments
type ShipmentModel struct {
	AggregateModel
	OrderID        uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	Courier        string               `gorm:"type:varchar(50);not null"`
	TrackingNumber string               `gorm:"type:varchar(100);index"`
	Address        string               `gorm:"type:text;not null"`
	Status         trade.ShipmentStatus `gorm:"type:varchar(20);not null;index"`
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

func (ShipmentModel) TableName() string { return "shipments" }

func (m *ShipmentModel) ToDomain() *trade.Shipment {
	return &trade.Shipment{
		BaseAggregateRoot: m.toDomain(),
		OrderID:           m.OrderID,
		Courier:           m.Courier,
		TrackingNumber:    m.TrackingNumber,
		Address:           m.Address,
		Status:            m.Status,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
	}
}

func ShipmentModelFromDomain(s *trade.Shipment) *ShipmentModel {
	return &ShipmentModel{
		AggregateModel: aggregateFromDomain(s.BaseAggregateRoot),
		OrderID:        s.OrderID,
		Courier:        s.Courier,
		TrackingNumber: s.TrackingNumber,
		Address:        s.Address,
		Status:         s.Status,
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
	}
}

package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// ShipmentStatus represents the delivery progress of a shipment
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusShipped   ShipmentStatus = "shipped"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// IsValid checks if the status is known
func (s ShipmentStatus) IsValid() bool {
	return s == ShipmentStatusPending || s == ShipmentStatusShipped || s == ShipmentStatusDelivered
}

// Shipment tracks the physical delivery of an order
type Shipment struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID
	Courier        string
	TrackingNumber string
	Address        string
	Status         ShipmentStatus
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// NewShipment creates a pending shipment for an order
func NewShipment(orderID uuid.UUID, courier, address string) (*Shipment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if strings.TrimSpace(courier) == "" {
		return nil, shared.NewDomainError("INVALID_COURIER", "Courier cannot be empty")
	}
	if strings.TrimSpace(address) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	return &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Courier:           strings.TrimSpace(courier),
		Address:           strings.TrimSpace(address),
		Status:            ShipmentStatusPending,
	}, nil
}

// Ship hands the parcel to the courier
func (s *Shipment) Ship(trackingNumber string) error {
	if s.Status != ShipmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship shipment in %s status", s.Status))
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number is required to ship")
	}
	now := time.Now()
	s.TrackingNumber = trackingNumber
	s.Status = ShipmentStatusShipped
	s.ShippedAt = &now
	s.touch(now)
	return nil
}

// Deliver marks the parcel as received
func (s *Shipment) Deliver() error {
	if s.Status != ShipmentStatusShipped {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver shipment in %s status", s.Status))
	}
	now := time.Now()
	s.Status = ShipmentStatusDelivered
	s.DeliveredAt = &now
	s.touch(now)
	return nil
}

func (s *Shipment) touch(now time.Time) {
	s.UpdatedAt = now
	s.IncrementVersion()
}

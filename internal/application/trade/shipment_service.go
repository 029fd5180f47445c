package trade

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ShipmentService tracks deliveries and moves their orders along
type ShipmentService struct {
	shipmentRepo trade.ShipmentRepository
	orderRepo    trade.OrderRepository
	txScope      TransactionScope
	publisher    shared.EventPublisher
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	shipmentRepo trade.ShipmentRepository,
	orderRepo trade.OrderRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		txScope:      txScope,
		publisher:    publisher,
	}
}

// List retrieves shipments with filtering and pagination
func (s *ShipmentService) List(ctx context.Context, filter ShipmentListFilter) ([]ShipmentResponse, int64, error) {
	f := filter.filter()
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.OrderID != nil {
		f.Filters["order_id"] = *filter.OrderID
	}

	shipments, err := s.shipmentRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.shipmentRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ShipmentResponse, len(shipments))
	for i := range shipments {
		out[i] = ToShipmentResponse(&shipments[i])
	}
	return out, total, nil
}

// GetByID retrieves a shipment
func (s *ShipmentService) GetByID(ctx context.Context, id uuid.UUID) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToShipmentResponse(shipment)
	return &resp, nil
}

// Create opens a shipment for a paid order; an order has at most one shipment
func (s *ShipmentService) Create(ctx context.Context, req CreateShipmentRequest) (*ShipmentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != trade.OrderStatusPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Only paid orders can be shipped")
	}

	existing, err := s.shipmentRepo.FindByOrder(ctx, order.ID)
	switch {
	case err == nil && existing != nil:
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order already has a shipment")
	case err != nil && !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = order.ShippingAddress
	}
	shipment, err := trade.NewShipment(order.ID, req.Courier, address)
	if err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}
	resp := ToShipmentResponse(shipment)
	return &resp, nil
}

// Ship hands the parcel to the courier and marks the order shipped
func (s *ShipmentService) Ship(ctx context.Context, id uuid.UUID, req ShipShipmentRequest) (*ShipmentResponse, error) {
	return s.advance(ctx, id, func(sh *trade.Shipment, o *trade.Order) error {
		if err := sh.Ship(req.TrackingNumber); err != nil {
			return err
		}
		return o.MarkShipped()
	})
}

// Deliver marks the parcel received and the order delivered
func (s *ShipmentService) Deliver(ctx context.Context, id uuid.UUID) (*ShipmentResponse, error) {
	return s.advance(ctx, id, func(sh *trade.Shipment, o *trade.Order) error {
		if err := sh.Deliver(); err != nil {
			return err
		}
		return o.MarkDelivered()
	})
}

// advance applies step to a shipment and its order and saves both together
func (s *ShipmentService) advance(ctx context.Context, id uuid.UUID, step func(*trade.Shipment, *trade.Order) error) (*ShipmentResponse, error) {
	var (
		shipment *trade.Shipment
		order    *trade.Order
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sh, err := repos.ShipmentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		o, err := repos.OrderRepo().FindByID(ctx, sh.OrderID)
		if err != nil {
			return err
		}
		if err := step(sh, o); err != nil {
			return err
		}
		if err := repos.ShipmentRepo().Save(ctx, sh); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		shipment, order = sh, o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := shared.PublishAndClear(ctx, s.publisher, order); err != nil {
		logger.L(ctx).Warn("failed to publish order events", zap.Error(err))
	}
	logger.L(ctx).Info("shipment updated",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("status", string(shipment.Status)),
		zap.String("order_number", order.OrderNumber))

	resp := ToShipmentResponse(shipment)
	return &resp, nil
}

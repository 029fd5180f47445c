package live

import (
	"context"

	"github.com/google/uuid"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errOrderNotInStream = shared.NewDomainError("ORDER_NOT_IN_STREAM", "Order was not placed in this live stream")

// Locker serializes work on a named resource across instances
type Locker interface {
	// Lock blocks until the lock is held and returns its release function
	Lock(ctx context.Context, name string) (func(), error)
}

// OrderWorkflow is the part of the order service used during a live session
type OrderWorkflow interface {
	List(ctx context.Context, filter apptrade.OrderListFilter) ([]apptrade.OrderResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*apptrade.OrderResponse, error)
	Confirm(ctx context.Context, id uuid.UUID) (*apptrade.OrderResponse, error)
	ConfirmWithVoucher(ctx context.Context, id uuid.UUID, redemption apptrade.VoucherRedemption) (*apptrade.OrderResponse, error)
}

// LiveOrderService confirms the orders collected during a live stream
type LiveOrderService struct {
	streamRepo live.LiveStreamRepository
	orders     OrderWorkflow
	locker     Locker
}

// NewLiveOrderService creates a new LiveOrderService
func NewLiveOrderService(streamRepo live.LiveStreamRepository, orders OrderWorkflow, locker Locker) *LiveOrderService {
	return &LiveOrderService{streamRepo: streamRepo, orders: orders, locker: locker}
}

// ListOrders retrieves the orders placed in a stream
func (s *LiveOrderService) ListOrders(ctx context.Context, streamID uuid.UUID, filter apptrade.OrderListFilter) ([]apptrade.OrderResponse, int64, error) {
	if _, err := s.streamRepo.FindByID(ctx, streamID); err != nil {
		return nil, 0, err
	}
	filter.LiveStreamID = &streamID
	filter.Source = ""
	return s.orders.List(ctx, filter)
}

// ConfirmOrder confirms an order of the stream, redeeming a voucher when a
// code is given. Redemptions of the same code are serialized by a lock so
// the quota check and the usage update cannot interleave.
func (s *LiveOrderService) ConfirmOrder(ctx context.Context, streamID, orderID uuid.UUID, req ConfirmLiveOrderRequest) (*apptrade.OrderResponse, error) {
	if _, err := s.streamRepo.FindByID(ctx, streamID); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.LiveStreamID == nil || *order.LiveStreamID != streamID {
		return nil, errOrderNotInStream
	}

	code := live.NormalizeVoucherCode(req.VoucherCode)
	if code == "" {
		return s.orders.Confirm(ctx, orderID)
	}

	unlock, err := s.locker.Lock(ctx, "voucher:"+streamID.String()+":"+code)
	if err != nil {
		logger.L(ctx).Warn("voucher lock not acquired",
			zap.String("stream_id", streamID.String()),
			zap.String("code", code),
			zap.Error(err))
		return nil, err
	}
	defer unlock()

	return s.orders.ConfirmWithVoucher(ctx, orderID, apptrade.VoucherRedemption{StreamID: streamID, Code: code})
}

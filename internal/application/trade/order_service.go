package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrInvalidVoucher is returned when a voucher code does not exist on the order's stream
var ErrInvalidVoucher = shared.NewDomainError("INVALID_VOUCHER", "Voucher code is not valid for this live stream")

// OrderNumberGenerator issues unique order numbers
type OrderNumberGenerator interface {
	NextOrderNumber() string
}

// OrderService handles order business operations
type OrderService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	txScope     TransactionScope
	numbers     OrderNumberGenerator
	publisher   shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	numbers OrderNumberGenerator,
	publisher shared.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txScope:     txScope,
		numbers:     numbers,
		publisher:   publisher,
	}
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := filter.filter()
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Source != "" {
		f.Filters["source"] = filter.Source
	}
	if filter.LiveStreamID != nil {
		f.Filters["live_stream_id"] = *filter.LiveStreamID
	}
	if filter.UserID != nil {
		f.Filters["user_id"] = *filter.UserID
	}

	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByOrderNumber retrieves an order by its number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Create places a pending order from the back office. Prices are taken
// from the catalog; inactive products cannot be ordered.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	order, err := trade.NewOrder(s.numbers.NextOrderNumber(), trade.Customer{
		UserID:  req.UserID,
		Name:    req.CustomerName,
		Phone:   req.CustomerPhone,
		Address: req.ShippingAddress,
	}, trade.OrderSourceAdmin)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		p := products[item.ProductID]
		if err := order.AddItem(p.ID, p.SKU, p.Name, p.Price, item.Quantity); err != nil {
			return nil, err
		}
	}

	if req.ShippingFee != nil {
		if err := order.SetShippingFee(*req.ShippingFee); err != nil {
			return nil, err
		}
	}
	if req.Note != "" {
		order.SetNote(req.Note)
	}
	if err := order.Place(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	logger.L(ctx).Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", order.ItemCount()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// CreateLiveOrder places a pending single-line order for a viewer of a live stream
func (s *OrderService) CreateLiveOrder(ctx context.Context, in LiveOrderInput) (*trade.Order, error) {
	products, err := s.loadProducts(ctx, []uuid.UUID{in.ProductID})
	if err != nil {
		return nil, err
	}
	p := products[in.ProductID]

	userID := in.UserID
	order, err := trade.NewOrder(s.numbers.NextOrderNumber(), trade.Customer{
		UserID: &userID,
		Name:   in.Name,
		Phone:  in.Phone,
	}, trade.OrderSourceLive)
	if err != nil {
		return nil, err
	}
	order.AttachLiveStream(in.StreamID)
	if err := order.AddItem(p.ID, p.SKU, p.Name, p.Price, in.Quantity); err != nil {
		return nil, err
	}
	if err := order.Place(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	return order, nil
}

// Confirm confirms a pending order and deducts stock for every line in one
// transaction. Nothing is deducted if any product is short.
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.confirm(ctx, id, nil)
}

// ConfirmWithVoucher redeems a live-stream voucher on the order and confirms
// it. The redemption, the stock deduction and the order update commit together.
func (s *OrderService) ConfirmWithVoucher(ctx context.Context, id uuid.UUID, redemption VoucherRedemption) (*OrderResponse, error) {
	return s.confirm(ctx, id, &redemption)
}

func (s *OrderService) confirm(ctx context.Context, id uuid.UUID, redemption *VoucherRedemption) (*OrderResponse, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if redemption != nil {
			if err := redeemVoucher(ctx, repos.VoucherRepo(), o, *redemption); err != nil {
				return err
			}
		}

		if err := o.Confirm(); err != nil {
			return err
		}
		if err := repos.ProductRepo().DeductStock(ctx, stockChanges(o)); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	logger.L(ctx).Info("order confirmed",
		zap.String("order_number", order.OrderNumber),
		zap.String("voucher_code", order.VoucherCode),
		zap.String("total", order.Total.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

func redeemVoucher(ctx context.Context, vouchers live.LiveVoucherRepository, o *trade.Order, r VoucherRedemption) error {
	if o.LiveStreamID == nil || *o.LiveStreamID != r.StreamID {
		return shared.NewDomainError("ORDER_NOT_IN_STREAM", "Order was not placed in this live stream")
	}
	voucher, err := vouchers.FindByCode(ctx, r.StreamID, live.NormalizeVoucherCode(r.Code))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrInvalidVoucher
		}
		return err
	}
	discount, err := voucher.Evaluate(o.Subtotal, time.Now())
	if err != nil {
		return err
	}
	if err := o.ApplyDiscount(voucher.Code, discount); err != nil {
		return err
	}
	return vouchers.IncrementUsage(ctx, voucher.ID)
}

// Cancel cancels a pending or confirmed order. Stock of a confirmed order is
// restored and a redeemed voucher gets its redemption back.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		wasConfirmed := o.Status == trade.OrderStatusConfirmed
		if err := o.Cancel(req.Reason); err != nil {
			return err
		}

		if wasConfirmed {
			if err := repos.ProductRepo().RestoreStock(ctx, stockChanges(o)); err != nil {
				return err
			}
			if o.VoucherCode != "" && o.LiveStreamID != nil {
				if err := releaseVoucher(ctx, repos.VoucherRepo(), *o.LiveStreamID, o.VoucherCode); err != nil {
					return err
				}
			}
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	logger.L(ctx).Info("order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", order.CancelReason))

	resp := ToOrderResponse(order)
	return &resp, nil
}

func releaseVoucher(ctx context.Context, vouchers live.LiveVoucherRepository, streamID uuid.UUID, code string) error {
	voucher, err := vouchers.FindByCode(ctx, streamID, code)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return vouchers.DecrementUsage(ctx, voucher.ID)
}

// loadProducts fetches products by id and checks they exist and are on sale
func (s *OrderService) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product "+id.String()+" does not exist")
		}
		if !p.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+p.SKU+" is not available")
		}
	}
	return byID, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishAndClear(ctx, s.publisher, order); err != nil {
		logger.L(ctx).Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

func stockChanges(o *trade.Order) []catalog.StockChange {
	changes := make([]catalog.StockChange, len(o.Items))
	for i, item := range o.Items {
		changes[i] = catalog.StockChange{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return changes
}

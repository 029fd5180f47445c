package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PaymentService records payments and settles orders once they are covered
type PaymentService struct {
	paymentRepo trade.PaymentRepository
	orderRepo   trade.OrderRepository
	txScope     TransactionScope
	publisher   shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo trade.PaymentRepository,
	orderRepo trade.OrderRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
		publisher:   publisher,
	}
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	f := filter.filter()
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Method != "" {
		f.Filters["method"] = filter.Method
	}
	if filter.OrderID != nil {
		f.Filters["order_id"] = *filter.OrderID
	}

	payments, err := s.paymentRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, total, nil
}

// GetByID retrieves a payment
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// Create records a pending payment for a confirmed order
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != trade.OrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Payments can only be recorded for confirmed orders")
	}

	payment, err := trade.NewPayment(order.ID, trade.PaymentMethod(req.Method), req.Amount)
	if err != nil {
		return nil, err
	}
	payment.Reference = req.Reference
	payment.Note = req.Note

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// MarkPaid settles a payment. When the paid payments of the order cover its
// total, the order moves to paid in the same transaction.
func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaymentPaidRequest) (*PaymentResponse, error) {
	var (
		payment *trade.Payment
		settled *trade.Order
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.MarkPaid(req.Reference); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return err
		}
		payment = p

		order, err := repos.OrderRepo().FindByID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if order.Status != trade.OrderStatusConfirmed {
			return nil
		}
		paid, err := repos.PaymentRepo().SumPaidByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if paid.LessThan(order.Total) {
			return nil
		}
		if err := order.MarkPaid(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		settled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settled != nil {
		if err := shared.PublishAndClear(ctx, s.publisher, settled); err != nil {
			logger.L(ctx).Warn("failed to publish order events", zap.Error(err))
		}
		logger.L(ctx).Info("order fully paid", zap.String("order_number", settled.OrderNumber))
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// MarkFailed records that a pending payment did not go through
func (s *PaymentService) MarkFailed(ctx context.Context, id uuid.UUID, req MarkPaymentFailedRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payment.MarkFailed(req.Reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// Refund refunds a settled payment. The order status is left as is.
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID, req RefundPaymentRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payment.Refund(req.Note); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()))

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

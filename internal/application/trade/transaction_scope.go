package trade

import (
	"context"

	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. An error returned by fn rolls the transaction back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories an order
// workflow touches. All of them share the surrounding transaction.
//
// Stock (ProductRepo) and voucher usage (VoucherRepo) are changed together
// with the order so a failed confirmation leaves neither behind.
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	PaymentRepo() trade.PaymentRepository
	ShipmentRepo() trade.ShipmentRepository
	ProductRepo() catalog.ProductRepository
	VoucherRepo() live.LiveVoucherRepository
}

// NoOpTransactionScope calls fn directly with plain repositories.
// Used in tests.
type NoOpTransactionScope struct {
	orderRepo    trade.OrderRepository
	paymentRepo  trade.PaymentRepository
	shipmentRepo trade.ShipmentRepository
	productRepo  catalog.ProductRepository
	voucherRepo  live.LiveVoucherRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	paymentRepo trade.PaymentRepository,
	shipmentRepo trade.ShipmentRepository,
	productRepo catalog.ProductRepository,
	voucherRepo live.LiveVoucherRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		shipmentRepo: shipmentRepo,
		productRepo:  productRepo,
		voucherRepo:  voucherRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository       { return s.orderRepo }
func (s *NoOpTransactionScope) PaymentRepo() trade.PaymentRepository   { return s.paymentRepo }
func (s *NoOpTransactionScope) ShipmentRepo() trade.ShipmentRepository { return s.shipmentRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *NoOpTransactionScope) VoucherRepo() live.LiveVoucherRepository {
	return s.voucherRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

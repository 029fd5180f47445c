package trade

import (
	"context"
	"testing"

	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newConfirmedOrder(t *testing.T) *trade.Order {
	t.Helper()
	o := newPendingOrder(t, nil, newTestProduct(t, "KAOS-01", 50000, 10))
	require.NoError(t, o.Confirm())
	o.ClearDomainEvents()
	return o
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed order", func(t *testing.T) {
		f := newTradeFixture()
		order := newConfirmedOrder(t)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.payments.On("Save", ctx, mock.AnythingOfType("*trade.Payment")).Return(nil)

		svc := NewPaymentService(f.payments, f.orders, f.scope, f.publisher)
		resp, err := svc.Create(ctx, CreatePaymentRequest{
			OrderID: order.ID, Method: "bank_transfer", Amount: decimal.NewFromInt(100000), Reference: "TRF-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "TRF-1", resp.Reference)
	})

	t.Run("pending order is rejected", func(t *testing.T) {
		f := newTradeFixture()
		order := newPendingOrder(t, nil, newTestProduct(t, "KAOS-01", 50000, 10))
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		svc := NewPaymentService(f.payments, f.orders, f.scope, f.publisher)
		_, err := svc.Create(ctx, CreatePaymentRequest{OrderID: order.ID, Method: "cash", Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestPaymentService_MarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("full coverage settles the order", func(t *testing.T) {
		f := newTradeFixture()
		order := newConfirmedOrder(t)
		payment, err := trade.NewPayment(order.ID, trade.PaymentMethodCash, order.Total)
		require.NoError(t, err)

		f.payments.On("FindByID", ctx, payment.ID).Return(payment, nil)
		f.payments.On("Save", ctx, payment).Return(nil)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.payments.On("SumPaidByOrder", ctx, order.ID).Return(order.Total, nil)
		f.orders.On("Save", ctx, order).Return(nil)

		svc := NewPaymentService(f.payments, f.orders, f.scope, f.publisher)
		resp, err := svc.MarkPaid(ctx, payment.ID, MarkPaymentPaidRequest{Reference: "CASH-9"})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.Equal(t, trade.OrderStatusPaid, order.Status)
		assert.Equal(t, []string{trade.EventTypeOrderPaid}, f.publisher.types())
	})

	t.Run("partial payment leaves order confirmed", func(t *testing.T) {
		f := newTradeFixture()
		order := newConfirmedOrder(t)
		payment, err := trade.NewPayment(order.ID, trade.PaymentMethodCash, decimal.NewFromInt(10000))
		require.NoError(t, err)

		f.payments.On("FindByID", ctx, payment.ID).Return(payment, nil)
		f.payments.On("Save", ctx, payment).Return(nil)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.payments.On("SumPaidByOrder", ctx, order.ID).Return(decimal.NewFromInt(10000), nil)

		svc := NewPaymentService(f.payments, f.orders, f.scope, f.publisher)
		_, err = svc.MarkPaid(ctx, payment.ID, MarkPaymentPaidRequest{})
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusConfirmed, order.Status)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.types())
	})
}

func TestPaymentService_Refund(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture()
	order := newConfirmedOrder(t)
	payment, err := trade.NewPayment(order.ID, trade.PaymentMethodEWallet, decimal.NewFromInt(10000))
	require.NoError(t, err)

	f.payments.On("FindByID", ctx, payment.ID).Return(payment, nil)
	f.payments.On("Save", ctx, payment).Return(nil)
	svc := NewPaymentService(f.payments, f.orders, f.scope, f.publisher)

	_, err = svc.Refund(ctx, payment.ID, RefundPaymentRequest{Note: "duplicate"})
	assert.ErrorIs(t, err, shared.ErrInvalidState, "a pending payment cannot be refunded")

	require.NoError(t, payment.MarkPaid("EW-1"))
	resp, err := svc.Refund(ctx, payment.ID, RefundPaymentRequest{Note: "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, "refunded", resp.Status)
	assert.NotNil(t, resp.RefundedAt)
}

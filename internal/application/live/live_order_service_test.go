package live

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLiveOrderService_ConfirmOrder(t *testing.T) {
	ctx := context.Background()
	streamID := uuid.New()
	orderID := uuid.New()

	setup := func(orderStream *uuid.UUID) (*LiveOrderService, *MockOrderWorkflow, *recordingLocker) {
		streams := new(MockStreamRepository)
		orders := new(MockOrderWorkflow)
		locker := &recordingLocker{}
		streams.On("FindByID", ctx, streamID).Return(newOnAirStream(t), nil)
		orders.On("GetByID", ctx, orderID).Return(&apptrade.OrderResponse{ID: orderID, LiveStreamID: orderStream}, nil)
		return NewLiveOrderService(streams, orders, locker), orders, locker
	}

	t.Run("without voucher", func(t *testing.T) {
		svc, orders, locker := setup(&streamID)
		orders.On("Confirm", ctx, orderID).Return(&apptrade.OrderResponse{ID: orderID, Status: "confirmed"}, nil)

		resp, err := svc.ConfirmOrder(ctx, streamID, orderID, ConfirmLiveOrderRequest{})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Empty(t, locker.names)
		orders.AssertNotCalled(t, "ConfirmWithVoucher", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("voucher redemption runs under the code lock", func(t *testing.T) {
		svc, orders, locker := setup(&streamID)
		orders.On("ConfirmWithVoucher", ctx, orderID, apptrade.VoucherRedemption{StreamID: streamID, Code: "FLASH10"}).
			Return(&apptrade.OrderResponse{ID: orderID, Status: "confirmed", VoucherCode: "FLASH10"}, nil)

		resp, err := svc.ConfirmOrder(ctx, streamID, orderID, ConfirmLiveOrderRequest{VoucherCode: " flash10"})
		require.NoError(t, err)
		assert.Equal(t, "FLASH10", resp.VoucherCode)
		assert.Equal(t, []string{"voucher:" + streamID.String() + ":FLASH10"}, locker.names)
		assert.Equal(t, 1, locker.released)
	})

	t.Run("lock released when redemption fails", func(t *testing.T) {
		svc, orders, locker := setup(&streamID)
		orders.On("ConfirmWithVoucher", ctx, orderID, mock.Anything).
			Return(nil, shared.NewDomainError("VOUCHER_EXHAUSTED", "Voucher quota has been used up"))

		_, err := svc.ConfirmOrder(ctx, streamID, orderID, ConfirmLiveOrderRequest{VoucherCode: "FLASH10"})
		assert.Error(t, err)
		assert.Equal(t, 1, locker.released)
	})

	t.Run("lock contention", func(t *testing.T) {
		svc, orders, locker := setup(&streamID)
		locker.err = shared.ErrConcurrencyConflict

		_, err := svc.ConfirmOrder(ctx, streamID, orderID, ConfirmLiveOrderRequest{VoucherCode: "FLASH10"})
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
		orders.AssertNotCalled(t, "ConfirmWithVoucher", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("order of another stream", func(t *testing.T) {
		other := uuid.New()
		svc, orders, _ := setup(&other)

		_, err := svc.ConfirmOrder(ctx, streamID, orderID, ConfirmLiveOrderRequest{})
		assert.True(t, errors.Is(err, errOrderNotInStream))
		orders.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})

	t.Run("back office order", func(t *testing.T) {
		svc, _, _ := setup(nil)

		_, err := svc.ConfirmOrder(ctx, streamID, orderID, ConfirmLiveOrderRequest{})
		assert.True(t, errors.Is(err, errOrderNotInStream))
	})
}

func TestLiveOrderService_ListOrdersScopesToStream(t *testing.T) {
	ctx := context.Background()
	streamID := uuid.New()
	streams := new(MockStreamRepository)
	orders := new(MockOrderWorkflow)
	streams.On("FindByID", ctx, streamID).Return(newOnAirStream(t), nil)
	orders.On("List", ctx, mock.MatchedBy(func(f apptrade.OrderListFilter) bool {
		return f.LiveStreamID != nil && *f.LiveStreamID == streamID && f.Status == "pending"
	})).Return([]apptrade.OrderResponse{{ID: uuid.New()}}, int64(1), nil)

	list, total, err := NewLiveOrderService(streams, orders, &recordingLocker{}).
		ListOrders(ctx, streamID, apptrade.OrderListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

package trade

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestOrder(t *testing.T) *Order {
	order, err := NewOrder("ORD1001", Customer{Name: "Test Customer", Phone: "628123"}, OrderSourceAdmin)
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *Order, price int64, qty int) uuid.UUID {
	productID := uuid.New()
	require.NoError(t, order.AddItem(productID, "SKU-"+productID.String()[:4], "Item", decimal.NewFromInt(price), qty))
	return productID
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, code, de.Code)
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPaid, false},
		{OrderStatusConfirmed, OrderStatusPaid, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusShipped, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.False(t, OrderStatus("unknown").IsValid())
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		order := createTestOrder(t)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.True(t, order.Total.IsZero())
		assert.Empty(t, order.Items)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewOrder("", Customer{Name: "A"}, OrderSourceAdmin)
		requireCode(t, err, "INVALID_ORDER_NUMBER")
	})

	t.Run("rejects empty customer", func(t *testing.T) {
		_, err := NewOrder("ORD1", Customer{Name: " "}, OrderSourceAdmin)
		requireCode(t, err, "INVALID_CUSTOMER")
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := NewOrder("ORD1", Customer{Name: "A"}, OrderSource("tv"))
		requireCode(t, err, "INVALID_SOURCE")
	})
}

func TestOrder_Totals(t *testing.T) {
	order := createTestOrder(t)
	productID := addTestItem(t, order, 100, 2)
	addTestItem(t, order, 50, 1)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(250)))

	require.NoError(t, order.AddItem(productID, "X", "Item", decimal.NewFromInt(100), 1))
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 4, order.TotalQuantity())
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(350)))

	require.NoError(t, order.SetShippingFee(decimal.NewFromInt(20)))
	require.NoError(t, order.ApplyDiscount("LIVE10", decimal.NewFromInt(30)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(340)))

	requireCode(t, order.ApplyDiscount("AGAIN", decimal.NewFromInt(1)), "VOUCHER_ALREADY_APPLIED")
}

func TestOrder_DiscountCappedAtSubtotal(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, 10, 1)
	require.NoError(t, order.ApplyDiscount("BIG", decimal.NewFromInt(50)))
	assert.True(t, order.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.Total.IsZero())
}

func TestOrder_AddItemValidation(t *testing.T) {
	order := createTestOrder(t)
	requireCode(t, order.AddItem(uuid.Nil, "S", "N", decimal.NewFromInt(1), 1), "INVALID_PRODUCT")
	requireCode(t, order.AddItem(uuid.New(), "S", "N", decimal.NewFromInt(1), 0), "INVALID_QUANTITY")
	requireCode(t, order.AddItem(uuid.New(), "S", "N", decimal.NewFromInt(-1), 1), "INVALID_PRICE")
}

func TestOrder_Lifecycle(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, 100, 1)
	require.NoError(t, order.Place())

	require.NoError(t, order.Confirm())
	assert.NotNil(t, order.ConfirmedAt)
	requireCode(t, order.AddItem(uuid.New(), "S", "N", decimal.NewFromInt(1), 1), "INVALID_STATE")

	require.NoError(t, order.MarkPaid())
	require.NoError(t, order.MarkShipped())
	require.NoError(t, order.MarkDelivered())
	assert.True(t, order.IsTerminal())

	types := make([]string, 0)
	for _, e := range order.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{
		EventTypeOrderCreated, EventTypeOrderConfirmed, EventTypeOrderPaid,
		EventTypeOrderShipped, EventTypeOrderDelivered,
	}, types)

	requireCode(t, order.Cancel("late"), "INVALID_STATE")
}

func TestOrder_ConfirmRequiresItems(t *testing.T) {
	order := createTestOrder(t)
	requireCode(t, order.Confirm(), "NO_ITEMS")
	requireCode(t, order.Place(), "NO_ITEMS")
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancel pending", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 100, 1)
		require.NoError(t, order.Cancel("customer request"))

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		evt := events[0].(*OrderCancelledEvent)
		assert.False(t, evt.WasConfirmed)
	})

	t.Run("cancel confirmed flags stock release", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 100, 3)
		require.NoError(t, order.Confirm())
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel("out of stock"))
		evt := order.GetDomainEvents()[0].(*OrderCancelledEvent)
		assert.True(t, evt.WasConfirmed)
		require.Len(t, evt.Items, 1)
		assert.Equal(t, 3, evt.Items[0].Quantity)
	})

	t.Run("requires reason", func(t *testing.T) {
		order := createTestOrder(t)
		requireCode(t, order.Cancel(""), "INVALID_REASON")
	})
}

func TestOrder_AttachLiveStream(t *testing.T) {
	order := createTestOrder(t)
	streamID := uuid.New()
	order.AttachLiveStream(streamID)
	assert.Equal(t, OrderSourceLive, order.Source)
	require.NotNil(t, order.LiveStreamID)
	assert.Equal(t, streamID, *order.LiveStreamID)
}

package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Test Product", decimal.NewFromInt(150), 10)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Test Product", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 10, product.Stock)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("normalizes sku", func(t *testing.T) {
		product, err := NewProduct("  sku-abc ", "Test Product", decimal.Zero, 0)
		require.NoError(t, err)
		assert.Equal(t, "SKU-ABC", product.SKU)
	})

	t.Run("publishes created event", func(t *testing.T) {
		product, err := NewProduct("SKU-002", "Test Product", decimal.NewFromInt(1), 1)
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeProductCreated, event.EventType())
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, "SKU-002", event.SKU)
	})

	tests := []struct {
		name  string
		sku   string
		pname string
		price decimal.Decimal
		stock int
		code  string
	}{
		{"empty sku", "", "Name", decimal.Zero, 0, "INVALID_SKU"},
		{"sku with spaces", "AB CD", "Name", decimal.Zero, 0, "INVALID_SKU"},
		{"empty name", "SKU", "  ", decimal.Zero, 0, "INVALID_NAME"},
		{"negative price", "SKU", "Name", decimal.NewFromInt(-1), 0, "INVALID_PRICE"},
		{"negative stock", "SKU", "Name", decimal.Zero, -1, "INVALID_STOCK"},
	}
	for _, tt := range tests {
		t.Run("fails with "+tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.sku, tt.pname, tt.price, tt.stock)
			require.Error(t, err)
			assertDomainCode(t, err, tt.code)
		})
	}
}

func TestProduct_Stock(t *testing.T) {
	product, err := NewProduct("SKU-1", "Shirt", decimal.NewFromInt(100), 5)
	require.NoError(t, err)

	require.NoError(t, product.Deduct(3))
	assert.Equal(t, 2, product.Stock)

	err = product.Deduct(3)
	assertDomainCode(t, err, "INSUFFICIENT_STOCK")
	assert.Equal(t, 2, product.Stock)

	require.NoError(t, product.Restore(3))
	assert.Equal(t, 5, product.Stock)

	assertDomainCode(t, product.Deduct(0), "INVALID_QUANTITY")
	assertDomainCode(t, product.AdjustStock(-6), "INSUFFICIENT_STOCK")
	require.NoError(t, product.AdjustStock(-5))
	assert.True(t, product.IsLowStock(0))
}

func TestProduct_StatusTransitions(t *testing.T) {
	product, err := NewProduct("SKU-1", "Shirt", decimal.NewFromInt(100), 5)
	require.NoError(t, err)

	assertDomainCode(t, product.Activate(), "INVALID_STATE")
	require.NoError(t, product.Deactivate())
	assert.False(t, product.IsActive())
	assertDomainCode(t, product.Deactivate(), "INVALID_STATE")
	require.NoError(t, product.Activate())
	assert.True(t, product.IsActive())
}

func TestProduct_Update(t *testing.T) {
	product, err := NewProduct("SKU-1", "Shirt", decimal.NewFromInt(100), 5)
	require.NoError(t, err)
	version := product.GetVersion()

	require.NoError(t, product.Update("Blue Shirt", "cotton", decimal.NewFromInt(120)))
	assert.Equal(t, "Blue Shirt", product.Name)
	assert.Equal(t, "cotton", product.Description)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(120)))
	assert.Greater(t, product.GetVersion(), version)

	assertDomainCode(t, product.Update("", "", decimal.Zero), "INVALID_NAME")
}

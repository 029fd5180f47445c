package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// StockChange is a quantity change for a single product
type StockChange struct {
	ProductID uuid.UUID
	Quantity  int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its normalized SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter.
	// Supported filter keys: status
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountLowStock counts active products whose stock is at or below threshold
	CountLowStock(ctx context.Context, threshold int) (int64, error)

	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	Save(ctx context.Context, product *Product) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DeductStock atomically deducts all changes or none.
	// Returns INSUFFICIENT_STOCK if any product is short.
	DeductStock(ctx context.Context, changes []StockChange) error

	// RestoreStock adds the quantities back
	RestoreStock(ctx context.Context, changes []StockChange) error
}

package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the status is a known ProductStatus
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,49}$`)

// Product represents a sellable item in the catalog
// It is the aggregate root for stock and pricing
type Product struct {
	shared.BaseAggregateRoot
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Status      ProductStatus
}

// NewProduct creates a new active product
func NewProduct(sku, name string, price decimal.Decimal, stock int) (*Product, error) {
	sku = NormalizeSKU(sku)
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              strings.TrimSpace(name),
		Price:             price,
		Stock:             stock,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update changes the descriptive fields and the price
func (p *Product) Update(name, description string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Price = price
	p.touch()
	return nil
}

// SetImageURL sets the public URL of the product image
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.touch()
}

// Activate makes the product sellable
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.touch()
	return nil
}

// Deactivate hides the product from sale
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.touch()
	return nil
}

// AdjustStock applies a signed delta to the stock level
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Stock adjustment would make %s negative (current %d, delta %d)", p.SKU, p.Stock, delta))
	}
	p.Stock += delta
	p.touch()
	return nil
}

// Deduct removes quantity from stock for a sale
func (p *Product) Deduct(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < qty {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", p.SKU, p.Stock, qty))
	}
	p.Stock -= qty
	p.touch()
	return nil
}

// Restore puts quantity back into stock
func (p *Product) Restore(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Stock += qty
	p.touch()
	return nil
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock reports whether stock is at or below the threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// NormalizeSKU trims and upper-cases a SKU
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if !skuPattern.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU may only contain letters, digits, '-' and '_' (max 50)")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

package models

import (
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	SKU         string                `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Name        string                `gorm:"type:varchar(200);not null"`
	Description string                `gorm:"type:text"`
	Price       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Stock       int                   `gorm:"not null;default:0;check:stock >= 0"`
	ImageURL    string                `gorm:"type:varchar(500)"`
	Status      catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

func (ProductModel) TableName() string { return "products" }

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.toDomain(),
		SKU:               m.SKU,
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		Stock:             m.Stock,
		ImageURL:          m.ImageURL,
		Status:            m.Status,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		AggregateModel: aggregateFromDomain(p.BaseAggregateRoot),
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
		Status:         p.Status,
	}
}

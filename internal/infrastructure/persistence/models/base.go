// Package models holds the GORM persistence models. Domain entities stay
// free of ORM tags; each model converts with ToDomain and FromDomain.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with the optimistic-lock version.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// Aggregate exposes the embedded AggregateModel to generic helpers
func (m *AggregateModel) Aggregate() *AggregateModel { return m }

func aggregateFromDomain(a shared.BaseAggregateRoot) AggregateModel {
	return AggregateModel{
		BaseModel: BaseModel{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt},
		Version:   a.Version,
	}
}

func (m *AggregateModel) toDomain() shared.BaseAggregateRoot {
	return shared.RestoreAggregateRoot(
		shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		m.Version,
	)
}

// All returns every model, in dependency order, for AutoMigrate in tests
// and local development.
func All() []any {
	return []any{
		&AdminModel{},
		&UserModel{},
		&ProductModel{},
		&LiveStreamModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&ShipmentModel{},
		&LiveCommentModel{},
		&LiveVoucherModel{},
		&AutoReplyModel{},
		&WhatsAppMessageModel{},
	}
}

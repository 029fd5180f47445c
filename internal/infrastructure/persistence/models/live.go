package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/shopspring/decimal"
)

// LiveStreamModel is the persistence model for live sessions
type LiveStreamModel struct {
	AggregateModel
	Title           string            `gorm:"type:varchar(200);not null"`
	Description     string            `gorm:"type:text"`
	HostID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	RoomID          string            `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status          live.StreamStatus `gorm:"type:varchar(20);not null;index"`
	ViewerCount     int               `gorm:"not null;default:0"`
	PeakViewers     int               `gorm:"not null;default:0"`
	PinnedProductID *uuid.UUID        `gorm:"type:uuid"`
	ScheduledAt     *time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
}

func (LiveStreamModel) TableName() string { return "live_streams" }

func (m *LiveStreamModel) ToDomain() *live.LiveStream {
	return &live.LiveStream{
		BaseAggregateRoot: m.toDomain(),
		Title:             m.Title,
		Description:       m.Description,
		HostID:            m.HostID,
		RoomID:            m.RoomID,
		Status:            m.Status,
		ViewerCount:       m.ViewerCount,
		PeakViewers:       m.PeakViewers,
		PinnedProductID:   m.PinnedProductID,
		ScheduledAt:       m.ScheduledAt,
		StartedAt:         m.StartedAt,
		EndedAt:           m.EndedAt,
	}
}

func LiveStreamModelFromDomain(s *live.LiveStream) *LiveStreamModel {
	return &LiveStreamModel{
		AggregateModel:  aggregateFromDomain(s.BaseAggregateRoot),
		Title:           s.Title,
		Description:     s.Description,
		HostID:          s.HostID,
		RoomID:          s.RoomID,
		Status:          s.Status,
		ViewerCount:     s.ViewerCount,
		PeakViewers:     s.PeakViewers,
		PinnedProductID: s.PinnedProductID,
		ScheduledAt:     s.ScheduledAt,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
	}
}

// LiveCommentModel is an append-only chat row
type LiveCommentModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LiveStreamID uuid.UUID  `gorm:"type:uuid;not null;index:idx_live_comments_stream_created,priority:1"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null"`
	Username     string     `gorm:"type:varchar(100);not null"`
	Message      string     `gorm:"type:varchar(2000);not null"`
	IsOrder      bool       `gorm:"not null;default:false"`
	ProductID    *uuid.UUID `gorm:"type:uuid"`
	Quantity     int        `gorm:"not null;default:0"`
	OrderID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_live_comments_stream_created,priority:2"`
}

func (LiveCommentModel) TableName() string { return "live_comments" }

func (m *LiveCommentModel) ToDomain() *live.LiveComment {
	return &live.LiveComment{
		ID:           m.ID,
		LiveStreamID: m.LiveStreamID,
		UserID:       m.UserID,
		Username:     m.Username,
		Message:      m.Message,
		IsOrder:      m.IsOrder,
		ProductID:    m.ProductID,
		Quantity:     m.Quantity,
		OrderID:      m.OrderID,
		CreatedAt:    m.CreatedAt,
	}
}

func LiveCommentModelFromDomain(c *live.LiveComment) *LiveCommentModel {
	return &LiveCommentModel{
		ID:           c.ID,
		LiveStreamID: c.LiveStreamID,
		UserID:       c.UserID,
		Username:     c.Username,
		Message:      c.Message,
		IsOrder:      c.IsOrder,
		ProductID:    c.ProductID,
		Quantity:     c.Quantity,
		OrderID:      c.OrderID,
		CreatedAt:    c.CreatedAt,
	}
}

// LiveVoucherModel is the persistence model for stream vouchers
type LiveVoucherModel struct {
	AggregateModel
	LiveStreamID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_live_vouchers_stream_code,priority:1"`
	Code         string            `gorm:"type:varchar(32);not null;uniqueIndex:idx_live_vouchers_stream_code,priority:2"`
	DiscountType live.DiscountType `gorm:"type:varchar(10);not null"`
	Value        decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	MinPurchase  decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	MaxDiscount  decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Quota        int               `gorm:"not null"`
	UsedCount    int               `gorm:"not null;default:0"`
	StartsAt     *time.Time
	EndsAt       *time.Time
	Active       bool `gorm:"not null"`
}

func (LiveVoucherModel) TableName() string { return "live_vouchers" }

func (m *LiveVoucherModel) ToDomain() *live.LiveVoucher {
	return &live.LiveVoucher{
		BaseAggregateRoot: m.toDomain(),
		LiveStreamID:      m.LiveStreamID,
		Code:              m.Code,
		DiscountType:      m.DiscountType,
		Value:             m.Value,
		MinPurchase:       m.MinPurchase,
		MaxDiscount:       m.MaxDiscount,
		Quota:             m.Quota,
		UsedCount:         m.UsedCount,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		Active:            m.Active,
	}
}

func LiveVoucherModelFromDomain(v *live.LiveVoucher) *LiveVoucherModel {
	return &LiveVoucherModel{
		AggregateModel: aggregateFromDomain(v.BaseAggregateRoot),
		LiveStreamID:   v.LiveStreamID,
		Code:           v.Code,
		DiscountType:   v.DiscountType,
		Value:          v.Value,
		MinPurchase:    v.MinPurchase,
		MaxDiscount:    v.MaxDiscount,
		Quota:          v.Quota,
		UsedCount:      v.UsedCount,
		StartsAt:       v.StartsAt,
		EndsAt:         v.EndsAt,
		Active:         v.Active,
	}
}

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLiveStreamRepository implements LiveStreamRepository using GORM
type GormLiveStreamRepository struct {
	db *gorm.DB
}

// NewGormLiveStreamRepository creates a new GormLiveStreamRepository
func NewGormLiveStreamRepository(db *gorm.DB) *GormLiveStreamRepository {
	return &GormLiveStreamRepository{db: db}
}

// FindByID finds a live stream by ID
func (r *GormLiveStreamRepository) FindByID(ctx context.Context, id uuid.UUID) (*live.LiveStream, error) {
	var m models.LiveStreamModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll finds live streams matching the filter
func (r *GormLiveStreamRepository) FindAll(ctx context.Context, filter shared.Filter) ([]live.LiveStream, error) {
	var rows []models.LiveStreamModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LiveStreamModel{}), filter)
	if err := paginate(query, filter, LiveStreamSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	streams := make([]live.LiveStream, len(rows))
	for i := range rows {
		streams[i] = *rows[i].ToDomain()
	}
	return streams, nil
}

// Count counts live streams matching the filter
func (r *GormLiveStreamRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LiveStreamModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a live stream
func (r *GormLiveStreamRepository) Save(ctx context.Context, stream *live.LiveStream) error {
	return saveAggregate(r.db.WithContext(ctx), models.LiveStreamModelFromDomain(stream), &stream.BaseAggregateRoot)
}

// Delete deletes a live stream together with its comments and vouchers
func (r *GormLiveStreamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("live_stream_id = ?", id).Delete(&models.LiveCommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("live_stream_id = ?", id).Delete(&models.LiveVoucherModel{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.LiveStreamModel{}, id)
	})
}

func (r *GormLiveStreamRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			if values, ok := filterValues(value); ok {
				query = query.Where("status IN ?", values)
			} else {
				query = query.Where("status = ?", value)
			}
		case "host_id":
			query = query.Where("host_id = ?", value)
		}
	}
	return query
}

// GormLiveCommentRepository implements LiveCommentRepository using GORM
type GormLiveCommentRepository struct {
	db *gorm.DB
}

// NewGormLiveCommentRepository creates a new GormLiveCommentRepository
func NewGormLiveCommentRepository(db *gorm.DB) *GormLiveCommentRepository {
	return &GormLiveCommentRepository{db: db}
}

// Save inserts a comment, or updates its order link if it already exists
func (r *GormLiveCommentRepository) Save(ctx context.Context, comment *live.LiveComment) error {
	m := models.LiveCommentModelFromDomain(comment)
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// FindByStream lists comments of a stream, newest first
func (r *GormLiveCommentRepository) FindByStream(ctx context.Context, streamID uuid.UUID, filter shared.Filter) ([]live.LiveComment, error) {
	var rows []models.LiveCommentModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("live_stream_id = ?", streamID), filter).
		Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	comments := make([]live.LiveComment, len(rows))
	for i := range rows {
		comments[i] = *rows[i].ToDomain()
	}
	return comments, nil
}

// CountByStream counts comments of a stream
func (r *GormLiveCommentRepository) CountByStream(ctx context.Context, streamID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LiveCommentModel{}).Where("live_stream_id = ?", streamID),
		filter,
	).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLiveCommentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(message) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	if v, ok := filter.Filters["is_order"].(bool); ok {
		query = query.Where("is_order = ?", v)
	}
	return query
}

// GormLiveVoucherRepository implements LiveVoucherRepository using GORM
type GormLiveVoucherRepository struct {
	db *gorm.DB
}

// NewGormLiveVoucherRepository creates a new GormLiveVoucherRepository
func NewGormLiveVoucherRepository(db *gorm.DB) *GormLiveVoucherRepository {
	return &GormLiveVoucherRepository{db: db}
}

// FindByID finds a voucher by ID
func (r *GormLiveVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*live.LiveVoucher, error) {
	var m models.LiveVoucherModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a voucher of a stream by its code
func (r *GormLiveVoucherRepository) FindByCode(ctx context.Context, streamID uuid.UUID, code string) (*live.LiveVoucher, error) {
	var m models.LiveVoucherModel
	if err := r.db.WithContext(ctx).
		Where("live_stream_id = ? AND code = ?", streamID, live.NormalizeVoucherCode(code)).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByStream lists the vouchers of a stream
func (r *GormLiveVoucherRepository) FindByStream(ctx context.Context, streamID uuid.UUID) ([]live.LiveVoucher, error) {
	var rows []models.LiveVoucherModel
	if err := r.db.WithContext(ctx).
		Where("live_stream_id = ?", streamID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	vouchers := make([]live.LiveVoucher, len(rows))
	for i := range rows {
		vouchers[i] = *rows[i].ToDomain()
	}
	return vouchers, nil
}

// Save creates or updates a voucher
func (r *GormLiveVoucherRepository) Save(ctx context.Context, voucher *live.LiveVoucher) error {
	return saveAggregate(r.db.WithContext(ctx), models.LiveVoucherModelFromDomain(voucher), &voucher.BaseAggregateRoot)
}

// IncrementUsage consumes one redemption with a conditional update
func (r *GormLiveVoucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.LiveVoucherModel{}).
		Where("id = ? AND used_count < quota", id).
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count + 1"),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return shared.NewDomainError("VOUCHER_EXHAUSTED", "Voucher quota has been used up")
	}
	return nil
}

// DecrementUsage gives one redemption back, never below zero
func (r *GormLiveVoucherRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.LiveVoucherModel{}).
		Where("id = ? AND used_count > 0", id).
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count - 1"),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	return result.Error
}

var (
	_ live.LiveStreamRepository  = (*GormLiveStreamRepository)(nil)
	_ live.LiveCommentRepository = (*GormLiveCommentRepository)(nil)
	_ live.LiveVoucherRepository = (*GormLiveVoucherRepository)(nil)
)

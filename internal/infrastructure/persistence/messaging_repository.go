package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// FindByID finds a message by ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.WhatsAppMessage, error) {
	var m models.WhatsAppMessageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByProviderID finds a message by the provider's message id
func (r *GormMessageRepository) FindByProviderID(ctx context.Context, providerMessageID string) (*messaging.WhatsAppMessage, error) {
	if providerMessageID == "" {
		return nil, shared.ErrNotFound
	}
	var m models.WhatsAppMessageModel
	if err := r.db.WithContext(ctx).
		Where("provider_message_id = ?", providerMessageID).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll finds messages matching the filter
func (r *GormMessageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]messaging.WhatsAppMessage, error) {
	var rows []models.WhatsAppMessageModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WhatsAppMessageModel{}), filter)
	if err := paginate(query, filter, MessageSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	messages := make([]messaging.WhatsAppMessage, len(rows))
	for i := range rows {
		messages[i] = *rows[i].ToDomain()
	}
	return messages, nil
}

// Count counts messages matching the filter
func (r *GormMessageRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.WhatsAppMessageModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a message
func (r *GormMessageRepository) Save(ctx context.Context, message *messaging.WhatsAppMessage) error {
	m := models.WhatsAppMessageModelFromDomain(message)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	message.CreatedAt = m.CreatedAt
	message.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GormMessageRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(body) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "phone":
			query = query.Where("phone = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// GormAutoReplyRepository implements AutoReplyRepository using GORM
type GormAutoReplyRepository struct {
	db *gorm.DB
}

// NewGormAutoReplyRepository creates a new GormAutoReplyRepository
func NewGormAutoReplyRepository(db *gorm.DB) *GormAutoReplyRepository {
	return &GormAutoReplyRepository{db: db}
}

// FindByID finds a rule by ID
func (r *GormAutoReplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.AutoReply, error) {
	var m models.AutoReplyModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll finds rules matching the filter
func (r *GormAutoReplyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]messaging.AutoReply, error) {
	var rows []models.AutoReplyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AutoReplyModel{}), filter)
	if err := paginate(query, filter, AutoReplySortFields, "priority").Find(&rows).Error; err != nil {
		return nil, err
	}
	return autoRepliesToDomain(rows), nil
}

// Count counts rules matching the filter
func (r *GormAutoReplyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.AutoReplyModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActive returns every active rule, highest priority first
func (r *GormAutoReplyRepository) FindActive(ctx context.Context) ([]messaging.AutoReply, error) {
	var rows []models.AutoReplyModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority DESC").Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return autoRepliesToDomain(rows), nil
}

// Save creates or updates a rule
func (r *GormAutoReplyRepository) Save(ctx context.Context, rule *messaging.AutoReply) error {
	m := models.AutoReplyModelFromDomain(rule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	rule.CreatedAt = m.CreatedAt
	rule.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete deletes a rule
func (r *GormAutoReplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.AutoReplyModel{}, id)
}

func (r *GormAutoReplyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	if v, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", v)
	}
	return query
}

func autoRepliesToDomain(rows []models.AutoReplyModel) []messaging.AutoReply {
	rules := make([]messaging.AutoReply, len(rows))
	for i := range rows {
		rules[i] = *rows[i].ToDomain()
	}
	return rules
}

var (
	_ messaging.MessageRepository   = (*GormMessageRepository)(nil)
	_ messaging.AutoReplyRepository = (*GormAutoReplyRepository)(nil)
)

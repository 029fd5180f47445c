package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/livecommerce/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// revenueStatuses are the order states whose totals have been collected
var revenueStatuses = []trade.OrderStatus{
	trade.OrderStatusPaid,
	trade.OrderStatusShipped,
	trade.OrderStatusDelivered,
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	return r.findOne(ctx, "order_number = ?", orderNumber)
}

func (r *GormOrderRepository) findOne(ctx context.Context, cond string, arg any) (*trade.Order, error) {
	db := r.db.WithContext(ctx)
	var m models.OrderModel
	if err := db.Where(cond, arg).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	var items []models.OrderItemModel
	if err := db.Where("order_id = ?", m.ID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(items), nil
}

// FindAll finds orders matching the filter. Items are loaded with one
// extra query for the whole page.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	db := r.db.WithContext(ctx)
	var rows []models.OrderModel
	query := r.applyFilter(db.Model(&models.OrderModel{}), filter)
	if err := paginate(query, filter, OrderSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []trade.Order{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var items []models.OrderItemModel
	if err := db.Where("order_id IN ?", ids).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]models.OrderItemModel, len(rows))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain(byOrder[rows[i].ID])
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns the number of orders per status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[trade.OrderStatus]int64, error) {
	var rows []struct {
		Status trade.OrderStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[trade.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// SumRevenue sums the totals of paid, shipped and delivered orders
func (r *GormOrderRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Revenue decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("SUM(total) AS revenue").
		Where("status IN ?", revenueStatuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	if !result.Revenue.Valid {
		return decimal.Zero, nil
	}
	return result.Revenue.Decimal, nil
}

// Save creates or updates an order and replaces its items
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	row, items := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(tx, row, &order.BaseAggregateRoot); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return translateError(err)
		}
		for i := range order.Items {
			order.Items[i].ID = items[i].ID
			order.Items[i].OrderID = order.ID
		}
		return nil
	})
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where(
			`(LOWER(order_number) LIKE ? ESCAPE '\' OR LOWER(customer_name) LIKE ? ESCAPE '\' OR customer_phone LIKE ? ESCAPE '\')`,
			p, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			if values, ok := filterValues(value); ok {
				query = query.Where("status IN ?", values)
			} else {
				query = query.Where("status = ?", value)
			}
		case "source":
			query = query.Where("source = ?", value)
		case "live_stream_id":
			query = query.Where("live_stream_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}
	return query
}

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Payment, error) {
	var m models.PaymentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByOrder lists the payments of an order, oldest first
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]trade.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Payment, error) {
	var rows []models.PaymentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PaymentModel{}), filter)
	if err := paginate(query, filter, PaymentSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PaymentModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPaidByOrder sums the amounts of paid payments for an order
func (r *GormPaymentRepository) SumPaidByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Paid decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("SUM(amount) AS paid").
		Where("order_id = ? AND status = ?", orderID, trade.PaymentStatusPaid).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	if !result.Paid.Valid {
		return decimal.Zero, nil
	}
	return result.Paid.Decimal, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *trade.Payment) error {
	return saveAggregate(r.db.WithContext(ctx), models.PaymentModelFromDomain(payment), &payment.BaseAggregateRoot)
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(reference) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}
	return query
}

func paymentsToDomain(rows []models.PaymentModel) []trade.Payment {
	payments := make([]trade.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments
}

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Shipment, error) {
	var m models.ShipmentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByOrder finds the shipment of an order
func (r *GormShipmentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*trade.Shipment, error) {
	var m models.ShipmentModel
	if err := r.db.WithContext(ctx).First(&m, "order_id = ?", orderID).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll finds shipments matching the filter
func (r *GormShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Shipment, error) {
	var rows []models.ShipmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShipmentModel{}), filter)
	if err := paginate(query, filter, ShipmentSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	shipments := make([]trade.Shipment, len(rows))
	for i := range rows {
		shipments[i] = *rows[i].ToDomain()
	}
	return shipments, nil
}

// Count counts shipments matching the filter
func (r *GormShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShipmentModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *trade.Shipment) error {
	return saveAggregate(r.db.WithContext(ctx), models.ShipmentModelFromDomain(shipment), &shipment.BaseAggregateRoot)
}

func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where(`(LOWER(tracking_number) LIKE ? ESCAPE '\' OR LOWER(courier) LIKE ? ESCAPE '\')`, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}
	return query
}

var (
	_ trade.OrderRepository    = (*GormOrderRepository)(nil)
	_ trade.PaymentRepository  = (*GormPaymentRepository)(nil)
	_ trade.ShipmentRepository = (*GormShipmentRepository)(nil)
)

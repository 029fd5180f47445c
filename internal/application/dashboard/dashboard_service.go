package dashboard

import (
	"context"

	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is used when no threshold is configured
const DefaultLowStockThreshold = 5

// Summary is the back-office dashboard overview
type Summary struct {
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	TotalOrders       int64            `json:"total_orders"`
	Revenue           decimal.Decimal  `json:"revenue" swaggertype:"string"`
	ProductCount      int64            `json:"product_count"`
	LowStockProducts  int64            `json:"low_stock_products"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	LiveStreamsOnAir  int64            `json:"live_streams_on_air"`
}

// Service aggregates counters for the dashboard
type Service struct {
	orderRepo         trade.OrderRepository
	productRepo       catalog.ProductRepository
	streamRepo        live.LiveStreamRepository
	lowStockThreshold int
}

// NewService creates a new dashboard Service
func NewService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	streamRepo live.LiveStreamRepository,
	lowStockThreshold int,
) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &Service{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		streamRepo:        streamRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// Summary collects the dashboard counters. Revenue counts orders that have
// been paid, including those shipped or delivered since.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	byStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumRevenue(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count(ctx, shared.Filter{Filters: map[string]interface{}{}})
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.CountLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	onAir, err := s.streamRepo.Count(ctx, shared.Filter{Filters: map[string]interface{}{
		"status": string(live.StreamStatusLive),
	}})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		OrdersByStatus:    make(map[string]int64, len(trade.AllOrderStatuses())),
		Revenue:           revenue,
		ProductCount:      products,
		LowStockProducts:  lowStock,
		LowStockThreshold: s.lowStockThreshold,
		LiveStreamsOnAir:  onAir,
	}
	for _, status := range trade.AllOrderStatuses() {
		n := byStatus[status]
		summary.OrdersByStatus[string(status)] = n
		summary.TotalOrders += n
	}
	return summary, nil
}

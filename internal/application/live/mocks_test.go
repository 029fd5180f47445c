package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) FindByID(ctx context.Context, id uuid.UUID) (*live.LiveStream, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*live.LiveStream), args.Error(1)
}

func (m *MockStreamRepository) FindAll(ctx context.Context, filter shared.Filter) ([]live.LiveStream, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]live.LiveStream), args.Error(1)
}

func (m *MockStreamRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStreamRepository) Save(ctx context.Context, stream *live.LiveStream) error {
	return m.Called(ctx, stream).Error(0)
}

func (m *MockStreamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *live.LiveComment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) FindByStream(ctx context.Context, streamID uuid.UUID, filter shared.Filter) ([]live.LiveComment, error) {
	args := m.Called(ctx, streamID, filter)
	return args.Get(0).([]live.LiveComment), args.Error(1)
}

func (m *MockCommentRepository) CountByStream(ctx context.Context, streamID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, streamID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*live.LiveVoucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*live.LiveVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByCode(ctx context.Context, streamID uuid.UUID, code string) (*live.LiveVoucher, error) {
	args := m.Called(ctx, streamID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*live.LiveVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByStream(ctx context.Context, streamID uuid.UUID) ([]live.LiveVoucher, error) {
	args := m.Called(ctx, streamID)
	return args.Get(0).([]live.LiveVoucher), args.Error(1)
}

func (m *MockVoucherRepository) Save(ctx context.Context, voucher *live.LiveVoucher) error {
	return m.Called(ctx, voucher).Error(0)
}

func (m *MockVoucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVoucherRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) DeductStock(ctx context.Context, changes []catalog.StockChange) error {
	return m.Called(ctx, changes).Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, changes []catalog.StockChange) error {
	return m.Called(ctx, changes).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*identity.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) CreateLiveOrder(ctx context.Context, in apptrade.LiveOrderInput) (*trade.Order, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

type MockOrderWorkflow struct {
	mock.Mock
}

func (m *MockOrderWorkflow) List(ctx context.Context, filter apptrade.OrderListFilter) ([]apptrade.OrderResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]apptrade.OrderResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderWorkflow) GetByID(ctx context.Context, id uuid.UUID) (*apptrade.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apptrade.OrderResponse), args.Error(1)
}

func (m *MockOrderWorkflow) Confirm(ctx context.Context, id uuid.UUID) (*apptrade.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apptrade.OrderResponse), args.Error(1)
}

func (m *MockOrderWorkflow) ConfirmWithVoucher(ctx context.Context, id uuid.UUID, redemption apptrade.VoucherRedemption) (*apptrade.OrderResponse, error) {
	args := m.Called(ctx, id, redemption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apptrade.OrderResponse), args.Error(1)
}

// memoryViewers mirrors the redis counter semantics in memory
type memoryViewers struct {
	mu      sync.Mutex
	current map[uuid.UUID]int64
	peak    map[uuid.UUID]int64
	err     error
}

func newMemoryViewers() *memoryViewers {
	return &memoryViewers{current: map[uuid.UUID]int64{}, peak: map[uuid.UUID]int64{}}
}

func (v *memoryViewers) Join(_ context.Context, id uuid.UUID) (int64, int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return 0, 0, v.err
	}
	v.current[id]++
	if v.current[id] > v.peak[id] {
		v.peak[id] = v.current[id]
	}
	return v.current[id], v.peak[id], nil
}

func (v *memoryViewers) Leave(_ context.Context, id uuid.UUID) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return 0, v.err
	}
	if v.current[id] > 0 {
		v.current[id]--
	}
	return v.current[id], nil
}

func (v *memoryViewers) Get(_ context.Context, id uuid.UUID) (int64, int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return 0, 0, v.err
	}
	return v.current[id], v.peak[id], nil
}

func (v *memoryViewers) Reset(_ context.Context, id uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.current, id)
	delete(v.peak, id)
	return v.err
}

type stubTokens struct {
	issued []string
}

func (s *stubTokens) IssueRoomToken(roomID, userID string, publish bool) (string, time.Time, error) {
	kind := "play"
	if publish {
		kind = "publish"
	}
	token := kind + ":" + roomID + ":" + userID
	s.issued = append(s.issued, token)
	return token, time.Now().Add(time.Hour), nil
}

// recordingLocker hands out locks and records their names
type recordingLocker struct {
	mu       sync.Mutex
	names    []string
	released int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.names = append(l.names, name)
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

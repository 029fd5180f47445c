package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockAutoReplyRepository struct {
	mock.Mock
}

func (m *MockAutoReplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.AutoReply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.AutoReply), args.Error(1)
}

func (m *MockAutoReplyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]messaging.AutoReply, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]messaging.AutoReply), args.Error(1)
}

func (m *MockAutoReplyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAutoReplyRepository) FindActive(ctx context.Context) ([]messaging.AutoReply, error) {
	args := m.Called(ctx)
	return args.Get(0).([]messaging.AutoReply), args.Error(1)
}

func (m *MockAutoReplyRepository) Save(ctx context.Context, rule *messaging.AutoReply) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockAutoReplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// memoryMessages is an in-memory message store keyed by id
type memoryMessages struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]messaging.WhatsAppMessage
	saves int
}

func newMemoryMessages() *memoryMessages {
	return &memoryMessages{byID: map[uuid.UUID]messaging.WhatsAppMessage{}}
}

func (r *memoryMessages) FindByID(_ context.Context, id uuid.UUID) (*messaging.WhatsAppMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *memoryMessages) FindByProviderID(_ context.Context, providerID string) (*messaging.WhatsAppMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byID {
		if m.ProviderMessageID == providerID {
			found := m
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryMessages) FindAll(_ context.Context, filter shared.Filter) ([]messaging.WhatsAppMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.WhatsAppMessage
	for _, m := range r.byID {
		if phone, ok := filter.Filters["phone"]; ok && m.Phone != phone {
			continue
		}
		if dir, ok := filter.Filters["direction"]; ok && string(m.Direction) != dir {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryMessages) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
}

func (r *memoryMessages) Save(_ context.Context, m *messaging.WhatsAppMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.byID[m.ID] = *m
	return nil
}

func (r *memoryMessages) byDirection(dir messaging.Direction) []messaging.WhatsAppMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.WhatsAppMessage
	for _, m := range r.byID {
		if m.Direction == dir {
			out = append(out, m)
		}
	}
	return out
}

type stubSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *stubSender) Send(_ context.Context, phone, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("provider unavailable")
	}
	s.sent = append(s.sent, phone+": "+body)
	return "wamid.out" + uuid.NewString()[:8], nil
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

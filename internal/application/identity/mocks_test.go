package identity

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Admin, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepository) Save(ctx context.Context, admin *identity.Admin) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *MockAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
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

// memoryOTPStore is an in-process OTPStore
type memoryOTPStore struct {
	mu        sync.Mutex
	entries   map[string]*identity.OTPEntry
	cooldowns map[string]time.Time
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{
		entries:   make(map[string]*identity.OTPEntry),
		cooldowns: make(map[string]time.Time),
	}
}

func (s *memoryOTPStore) Save(_ context.Context, phone string, entry *identity.OTPEntry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries[phone] = &copied
	return nil
}

func (s *memoryOTPStore) Get(_ context.Context, phone string) (*identity.OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[phone]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *memoryOTPStore) IncrementAttempts(_ context.Context, phone string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[phone]
	if !ok {
		return 0, shared.ErrNotFound
	}
	e.Attempts++
	return e.Attempts, nil
}

func (s *memoryOTPStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
	return nil
}

func (s *memoryOTPStore) AcquireCooldown(_ context.Context, phone string, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if until, ok := s.cooldowns[phone]; ok && time.Now().Before(until) {
		return false, nil
	}
	s.cooldowns[phone] = time.Now().Add(window)
	return true, nil
}

type capturingSender struct {
	phone string
	body  string
	err   error
}

var otpCodePattern = regexp.MustCompile(`\d{6}`)

func (s *capturingSender) SendText(_ context.Context, phone, body string) error {
	s.phone, s.body = phone, body
	return s.err
}

func (s *capturingSender) code() string {
	return otpCodePattern.FindString(s.body)
}

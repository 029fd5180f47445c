package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisOTPStore keeps OTP entries as JSON values that expire with the code.
// Wrong-guess counters live in a sibling key sharing the entry's expiry.
type RedisOTPStore struct {
	client redis.UniversalClient
}

// NewRedisOTPStore creates an OTP store over an existing client
func NewRedisOTPStore(client redis.UniversalClient) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

// Save stores the entry, replacing any previous code and its attempts
func (s *RedisOTPStore) Save(ctx context.Context, phone string, entry *identity.OTPEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode otp: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(keyOTP, phone), payload, ttl)
		pipe.Del(ctx, fmt.Sprintf(keyOTPAttempts, phone))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// Get returns the stored entry with its current attempt count
func (s *RedisOTPStore) Get(ctx context.Context, phone string) (*identity.OTPEntry, error) {
	var (
		rawEntry    *redis.StringCmd
		rawAttempts *redis.StringCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		rawEntry = pipe.Get(ctx, fmt.Sprintf(keyOTP, phone))
		rawAttempts = pipe.Get(ctx, fmt.Sprintf(keyOTPAttempts, phone))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load otp: %w", err)
	}

	data, err := rawEntry.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load otp: %w", err)
	}

	var entry identity.OTPEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode otp: %w", err)
	}
	if n, err := strconv.Atoi(rawAttempts.Val()); err == nil {
		entry.Attempts = n
	}
	return &entry, nil
}

// IncrementAttempts records a wrong guess against the live entry
func (s *RedisOTPStore) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	ttl, err := s.client.PTTL(ctx, fmt.Sprintf(keyOTP, phone)).Result()
	if err != nil {
		return 0, fmt.Errorf("read otp ttl: %w", err)
	}
	if ttl <= 0 {
		return 0, shared.ErrNotFound
	}

	key := fmt.Sprintf(keyOTPAttempts, phone)
	var incr *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment otp attempts: %w", err)
	}
	return int(incr.Val()), nil
}

// Delete removes the entry and its counters
func (s *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	err := s.client.Del(ctx, fmt.Sprintf(keyOTP, phone), fmt.Sprintf(keyOTPAttempts, phone)).Err()
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// AcquireCooldown claims the resend window for phone
func (s *RedisOTPStore) AcquireCooldown(ctx context.Context, phone string, window time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, fmt.Sprintf(keyOTPCooldown, phone), "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("acquire otp cooldown: %w", err)
	}
	return ok, nil
}

var _ identity.OTPStore = (*RedisOTPStore)(nil)

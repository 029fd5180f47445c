package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisProcessedStore records handled event ids so redelivered events are
// skipped until the marker expires
type RedisProcessedStore struct {
	client redis.UniversalClient
}

// NewRedisProcessedStore creates a processed-event store over an existing client
func NewRedisProcessedStore(client redis.UniversalClient) *RedisProcessedStore {
	return &RedisProcessedStore{client: client}
}

// MarkProcessed reports true the first time eventID is seen within ttl
func (s *RedisProcessedStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, fmt.Sprintf(keyEventSeen, eventID), time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event processed: %w", err)
	}
	return ok, nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] viewers, KEYS[2] peak, ARGV[1] expiry seconds
var joinScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
local peak = tonumber(redis.call('GET', KEYS[2]) or '0')
if current > peak then
	peak = current
	redis.call('SET', KEYS[2], peak)
end
redis.call('EXPIRE', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[2], ARGV[1])
return {current, peak}
`)

// KEYS[1] viewers
var leaveScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current > 0 then
	current = redis.call('DECR', KEYS[1])
end
return current
`)

// RedisViewerCounter keeps per-stream audience counters in Redis
type RedisViewerCounter struct {
	client redis.UniversalClient
}

// NewRedisViewerCounter creates a viewer counter over an existing client
func NewRedisViewerCounter(client redis.UniversalClient) *RedisViewerCounter {
	return &RedisViewerCounter{client: client}
}

func viewerKeys(streamID uuid.UUID) []string {
	id := streamID.String()
	return []string{fmt.Sprintf(keyLiveViewers, id), fmt.Sprintf(keyLivePeak, id)}
}

// Join increments the count and raises the peak when exceeded
func (c *RedisViewerCounter) Join(ctx context.Context, streamID uuid.UUID) (int64, int64, error) {
	res, err := joinScript.Run(ctx, c.client, viewerKeys(streamID), int(viewerKeyExpiry.Seconds())).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("viewer join: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("viewer join: unexpected reply %v", res)
	}
	return res[0], res[1], nil
}

// Leave decrements the count, flooring at zero
func (c *RedisViewerCounter) Leave(ctx context.Context, streamID uuid.UUID) (int64, error) {
	n, err := leaveScript.Run(ctx, c.client, viewerKeys(streamID)[:1]).Int64()
	if err != nil {
		return 0, fmt.Errorf("viewer leave: %w", err)
	}
	return n, nil
}

// Get returns the current and peak counts; unknown streams read as zero
func (c *RedisViewerCounter) Get(ctx context.Context, streamID uuid.UUID) (int64, int64, error) {
	vals, err := c.client.MGet(ctx, viewerKeys(streamID)...).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("viewer get: %w", err)
	}
	current, err := parseCount(vals[0])
	if err != nil {
		return 0, 0, err
	}
	peak, err := parseCount(vals[1])
	if err != nil {
		return 0, 0, err
	}
	return current, peak, nil
}

// Reset clears the counters of a stream
func (c *RedisViewerCounter) Reset(ctx context.Context, streamID uuid.UUID) error {
	if err := c.client.Del(ctx, viewerKeys(streamID)...).Err(); err != nil {
		return fmt.Errorf("viewer reset: %w", err)
	}
	return nil
}

func parseCount(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, errors.New("viewer count: unexpected value type")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("viewer count: %w", err)
	}
	return n, nil
}

var _ live.ViewerCounter = (*RedisViewerCounter)(nil)

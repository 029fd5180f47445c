package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livecommerce/backend/internal/interfaces/http/dto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether a request identified by key fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RedisRateLimiter is a fixed-window limiter shared by every API instance
type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window
func NewRedisRateLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow counts the request in the current window
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, l.limit, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	return count <= l.limit, max(l.limit-count, 0), nil
}

// Limit returns the number of requests allowed per window
func (l *RedisRateLimiter) Limit() int { return l.limit }

// MemoryRateLimiter is the single-instance limiter used when Redis is not configured
type MemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	count   int
	startAt time.Time
}

// NewMemoryRateLimiter creates an in-process limiter
func NewMemoryRateLimiter(limit int, every time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  every,
		now:     time.Now,
	}
}

// Allow counts the request in the current window
func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.startAt) >= l.window {
		// drop stale entries while we hold the lock
		if len(l.clients) > 10000 {
			for k, v := range l.clients {
				if now.Sub(v.startAt) >= l.window {
					delete(l.clients, k)
				}
			}
		}
		w = &window{startAt: now}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.limit, max(l.limit-w.count, 0), nil
}

// Limit returns the number of requests allowed per window
func (l *MemoryRateLimiter) Limit() int { return l.limit }

// RateLimit limits requests per client IP, or per principal once authenticated
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID := GetJWTUserID(c); userID != "" {
			key = "user:" + userID
		}

		ok, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

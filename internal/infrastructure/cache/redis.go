package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/livecommerce/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// Key layouts. Each takes the entity identifier as its only argument.
const (
	keyOTP          = "otp:%s"
	keyOTPAttempts  = "otp:%s:attempts"
	keyOTPCooldown  = "otp:%s:cooldown"
	keyLiveViewers  = "live:%s:viewers"
	keyLivePeak     = "live:%s:peak"
	keyLock         = "lock:%s"
	keyEventSeen    = "event:%s:processed"
	viewerKeyExpiry = 24 * time.Hour
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

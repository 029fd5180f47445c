package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedsyncLocker hands out short-lived distributed locks, used to serialize
// voucher redemptions and scheduled jobs across instances.
type RedsyncLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
	tries  int
}

// NewRedsyncLocker creates a locker over an existing client
func NewRedsyncLocker(client redis.UniversalClient, expiry time.Duration) *RedsyncLocker {
	if expiry <= 0 {
		expiry = 5 * time.Second
	}
	return &RedsyncLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		tries:  16,
	}
}

// Lock acquires the named lock, retrying briefly. The returned release
// function is safe to call once.
func (l *RedsyncLocker) Lock(ctx context.Context, name string) (func(), error) {
	mutex := l.rs.NewMutex(fmt.Sprintf(keyLock, name),
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(l.tries),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, ctxErr)
		}
		// Retries exhausted: the lock is held elsewhere or the quorum is unreachable.
		return nil, shared.ErrConcurrencyConflict
	}
	return func() {
		// Expiry frees the lock if unlock fails.
		_, _ = mutex.UnlockContext(context.WithoutCancel(ctx))
	}, nil
}

// LocalLocker is an in-process locker for single-instance runs and tests
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the named lock is free
func (l *LocalLocker) Lock(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

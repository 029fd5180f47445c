package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisOTPStore_Lifecycle(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisOTPStore(client)
	ctx := context.Background()
	phone := "+6281234567890"

	_, err := store.Get(ctx, phone)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	entry, err := identity.NewOTPEntry("123456", 5*time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, phone, entry, 5*time.Minute))

	got, err := store.Get(ctx, phone)
	require.NoError(t, err)
	assert.True(t, got.Matches("123456"))
	assert.Zero(t, got.Attempts)

	n, err := store.IncrementAttempts(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.IncrementAttempts(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err = store.Get(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
	assert.True(t, mr.TTL("otp:"+phone+":attempts") > 0)

	// A fresh code resets attempts.
	require.NoError(t, store.Save(ctx, phone, entry, 5*time.Minute))
	got, err = store.Get(ctx, phone)
	require.NoError(t, err)
	assert.Zero(t, got.Attempts)

	require.NoError(t, store.Delete(ctx, phone))
	_, err = store.Get(ctx, phone)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRedisOTPStore_Expiry(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisOTPStore(client)
	ctx := context.Background()

	entry, err := identity.NewOTPEntry("654321", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "628111", entry, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, "628111")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = store.IncrementAttempts(ctx, "628111")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRedisOTPStore_Cooldown(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisOTPStore(client)
	ctx := context.Background()

	ok, err := store.AcquireCooldown(ctx, "628111", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquireCooldown(ctx, "628111", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = store.AcquireCooldown(ctx, "628111", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisViewerCounter(t *testing.T) {
	_, client := newTestRedis(t)
	counter := NewRedisViewerCounter(client)
	ctx := context.Background()
	id := uuid.New()

	cur, peak, err := counter.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, cur)
	assert.Zero(t, peak)

	for i := 1; i <= 3; i++ {
		cur, peak, err = counter.Join(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, i, cur)
		assert.EqualValues(t, i, peak)
	}

	cur, err = counter.Leave(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cur)

	cur, peak, err = counter.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cur)
	assert.EqualValues(t, 3, peak)

	for i := 0; i < 5; i++ {
		cur, err = counter.Leave(ctx, id)
		require.NoError(t, err)
	}
	assert.Zero(t, cur)

	require.NoError(t, counter.Reset(ctx, id))
	cur, peak, err = counter.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, cur)
	assert.Zero(t, peak)
}

func TestRedisViewerCounter_ConcurrentJoins(t *testing.T) {
	_, client := newTestRedis(t)
	counter := NewRedisViewerCounter(client)
	ctx := context.Background()
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = counter.Join(ctx, id)
		}()
	}
	wg.Wait()

	cur, peak, err := counter.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 20, cur)
	assert.EqualValues(t, 20, peak)
}

func TestRedsyncLocker(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedsyncLocker(client, time.Second)
	locker.tries = 2
	ctx := context.Background()

	release, err := locker.Lock(ctx, "STREAM:CODE")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "STREAM:CODE")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	release()
	release2, err := locker.Lock(ctx, "STREAM:CODE")
	require.NoError(t, err)
	release2()
}

func TestLocalLocker(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(ctx, "k")
			if err != nil {
				return
			}
			counter++
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestRedisProcessedStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisProcessedStore(client)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	mr.FastForward(2 * time.Minute)
	afterExpiry, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, afterExpiry)

	mr.Close()
	_, err = store.MarkProcessed(ctx, "evt-2", time.Minute)
	assert.Error(t, err)
}

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSyncer struct {
	calls atomic.Int32
	n     int
	err   error
}

func (s *countingSyncer) SyncViewerCounts(context.Context) (int, error) {
	s.calls.Add(1)
	return s.n, s.err
}

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string) (func(), error) {
	return nil, errors.New("held")
}

type namedLocker struct {
	names []string
}

func (l *namedLocker) Lock(_ context.Context, name string) (func(), error) {
	l.names = append(l.names, name)
	return func() {}, nil
}

func TestViewerSyncScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("syncs under the lock", func(t *testing.T) {
		syncer := &countingSyncer{n: 3}
		locker := &namedLocker{}
		s := NewViewerSyncScheduler(syncer, locker, zap.NewNop(), ViewerSyncSchedulerConfig{Interval: time.Minute})

		n, err := s.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{viewerSyncLockName}, locker.names)
	})

	t.Run("skips when the lock is held", func(t *testing.T) {
		syncer := &countingSyncer{}
		s := NewViewerSyncScheduler(syncer, busyLocker{}, zap.NewNop(), ViewerSyncSchedulerConfig{Interval: time.Minute})

		_, err := s.RunOnce(ctx)
		assert.ErrorIs(t, err, ErrSyncSkipped)
		assert.Zero(t, syncer.calls.Load())
	})

	t.Run("runs without a locker", func(t *testing.T) {
		syncer := &countingSyncer{err: errors.New("db gone")}
		s := NewViewerSyncScheduler(syncer, nil, zap.NewNop(), ViewerSyncSchedulerConfig{Interval: time.Minute})

		_, err := s.RunOnce(ctx)
		assert.EqualError(t, err, "db gone")
		assert.Equal(t, int32(1), syncer.calls.Load())
	})
}

func TestViewerSyncScheduler_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled with zero interval", func(t *testing.T) {
		s := NewViewerSyncScheduler(&countingSyncer{}, nil, zap.NewNop(), ViewerSyncSchedulerConfig{})
		require.NoError(t, s.Start(ctx))
		assert.False(t, s.IsRunning())
		assert.NoError(t, s.Stop(ctx))
	})

	t.Run("rejects negative interval", func(t *testing.T) {
		s := NewViewerSyncScheduler(&countingSyncer{}, nil, zap.NewNop(), ViewerSyncSchedulerConfig{Interval: -time.Second})
		assert.ErrorIs(t, s.Start(ctx), ErrInvalidConfig)
	})

	t.Run("ticks until stopped", func(t *testing.T) {
		syncer := &countingSyncer{n: 1}
		s := NewViewerSyncScheduler(syncer, nil, zap.NewNop(), ViewerSyncSchedulerConfig{Interval: 10 * time.Millisecond})
		require.NoError(t, s.Start(ctx))
		require.NoError(t, s.Start(ctx))
		assert.True(t, s.IsRunning())

		assert.Eventually(t, func() bool { return syncer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

		stopCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		require.NoError(t, s.Stop(stopCtx))
		assert.False(t, s.IsRunning())

		calls := syncer.calls.Load()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, calls, syncer.calls.Load())
	})
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const viewerSyncLockName = "scheduler:viewer-sync"

// ViewerSyncer writes live audience counters back to storage
type ViewerSyncer interface {
	SyncViewerCounts(ctx context.Context) (int, error)
}

// Locker guards a run so only one instance syncs at a time
type Locker interface {
	Lock(ctx context.Context, name string) (func(), error)
}

// ViewerSyncSchedulerConfig holds configuration for the viewer sync scheduler
type ViewerSyncSchedulerConfig struct {
	// Interval between runs; zero disables the scheduler
	Interval time.Duration

	// Timeout bounds a single run
	Timeout time.Duration
}

// ViewerSyncScheduler periodically persists the viewer counts of live streams
// so lists and the dashboard stay close to the real audience
type ViewerSyncScheduler struct {
	syncer ViewerSyncer
	locker Locker
	logger *zap.Logger
	config ViewerSyncSchedulerConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewViewerSyncScheduler creates a new scheduler. locker may be nil for a
// single instance deployment.
func NewViewerSyncScheduler(syncer ViewerSyncer, locker Locker, logger *zap.Logger, config ViewerSyncSchedulerConfig) *ViewerSyncScheduler {
	if config.Timeout <= 0 || (config.Interval > 0 && config.Timeout > config.Interval) {
		config.Timeout = config.Interval
	}
	return &ViewerSyncScheduler{
		syncer: syncer,
		locker: locker,
		logger: logger,
		config: config,
	}
}

// Start launches the sync loop
func (s *ViewerSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if s.config.Interval < 0 {
		return ErrInvalidConfig
	}
	if s.config.Interval == 0 {
		s.logger.Info("Viewer sync scheduler is disabled")
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Viewer sync scheduler started", zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop gracefully stops the scheduler
func (s *ViewerSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Viewer sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Viewer sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *ViewerSyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ViewerSyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSyncSkipped) && ctx.Err() == nil {
				s.logger.Error("Viewer sync failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sync and returns the number of streams updated
func (s *ViewerSyncScheduler) RunOnce(ctx context.Context) (int, error) {
	runCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(runCtx, viewerSyncLockName)
		if err != nil {
			s.logger.Debug("Viewer sync lock not acquired", zap.Error(err))
			return 0, ErrSyncSkipped
		}
		defer unlock()
	}

	started := time.Now()
	n, err := s.syncer.SyncViewerCounts(runCtx)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Debug("Viewer counts synced",
			zap.Int("streams", n),
			zap.Duration("took", time.Since(started)),
		)
	}
	return n, nil
}

package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/livecommerce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultProcessedTTL is how long a handled event id is remembered
const DefaultProcessedTTL = 24 * time.Hour

// ProcessedStore records event ids that have already been handled
type ProcessedStore interface {
	// MarkProcessed atomically claims eventID; false means it was claimed before
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

// IdempotencyStats is a snapshot of idempotency counters
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// IdempotentHandler wraps an EventHandler so each event id is handled once
type IdempotentHandler struct {
	handler shared.EventHandler
	store   ProcessedStore
	ttl     time.Duration
	logger  *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandlerOption is a functional option for IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithProcessedTTL overrides how long processed markers live
func WithProcessedTTL(ttl time.Duration) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		if ttl > 0 {
			h.ttl = ttl
		}
	}
}

// NewIdempotentHandler creates a new idempotent handler wrapper
func NewIdempotentHandler(handler shared.EventHandler, store ProcessedStore, log *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		ttl:     DefaultProcessedTTL,
		logger:  log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle processes the event unless its id was already claimed. A store
// failure does not block delivery.
func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	eventID := evt.EventID().String()

	isNew, err := h.store.MarkProcessed(ctx, eventID, h.ttl)
	switch {
	case err != nil:
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", evt.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.duplicate.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", eventID),
			zap.String("event_type", evt.EventType()),
		)
		return nil
	}

	// The marker is kept on failure; a retry is possible once it expires.
	if err := h.handler.Handle(ctx, evt); err != nil {
		h.failed.Add(1)
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the handler counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.processed.Load(),
		EventsDuplicate: h.duplicate.Load(),
		EventsFailed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)

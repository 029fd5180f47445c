package live

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// LiveStreamRepository defines the interface for live stream persistence
type LiveStreamRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LiveStream, error)

	// FindAll supports filter keys: status (string or []string), host_id
	FindAll(ctx context.Context, filter shared.Filter) ([]LiveStream, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, stream *LiveStream) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LiveCommentRepository defines the interface for chat persistence
type LiveCommentRepository interface {
	Save(ctx context.Context, comment *LiveComment) error

	// FindByStream lists comments of a stream, newest first
	FindByStream(ctx context.Context, streamID uuid.UUID, filter shared.Filter) ([]LiveComment, error)
	CountByStream(ctx context.Context, streamID uuid.UUID, filter shared.Filter) (int64, error)
}

// LiveVoucherRepository defines the interface for voucher persistence
type LiveVoucherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LiveVoucher, error)
	FindByCode(ctx context.Context, streamID uuid.UUID, code string) (*LiveVoucher, error)
	FindByStream(ctx context.Context, streamID uuid.UUID) ([]LiveVoucher, error)
	Save(ctx context.Context, voucher *LiveVoucher) error

	// IncrementUsage consumes one redemption if quota remains.
	// Returns a VOUCHER_EXHAUSTED domain error when the quota is used up.
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// DecrementUsage gives one redemption back
	DecrementUsage(ctx context.Context, id uuid.UUID) error
}

// ViewerCounter keeps the live audience count of streams
type ViewerCounter interface {
	// Join increments the viewer count and returns the current and peak counts
	Join(ctx context.Context, streamID uuid.UUID) (current, peak int64, err error)

	// Leave decrements the viewer count, never below zero
	Leave(ctx context.Context, streamID uuid.UUID) (current int64, err error)

	Get(ctx context.Context, streamID uuid.UUID) (current, peak int64, err error)

	// Reset clears the counters of a stream
	Reset(ctx context.Context, streamID uuid.UUID) error
}

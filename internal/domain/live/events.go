package live

import (
	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

const (
	AggregateTypeLiveStream = "LiveStream"

	EventTypeLiveStarted      = "live.started"
	EventTypeLiveEnded        = "live.ended"
	EventTypeLiveCommentOrder = "live.comment_order"
)

// LiveStreamStartedEvent is published when a stream goes on air
type LiveStreamStartedEvent struct {
	shared.BaseDomainEvent
	StreamID uuid.UUID `json:"stream_id"`
	Title    string    `json:"title"`
	RoomID   string    `json:"room_id"`
	HostID   uuid.UUID `json:"host_id"`
}

// NewLiveStreamStartedEvent creates a new LiveStreamStartedEvent
func NewLiveStreamStartedEvent(s *LiveStream) *LiveStreamStartedEvent {
	return &LiveStreamStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLiveStarted, AggregateTypeLiveStream, s.ID),
		StreamID:        s.ID,
		Title:           s.Title,
		RoomID:          s.RoomID,
		HostID:          s.HostID,
	}
}

// LiveStreamEndedEvent is published when a stream goes off air
type LiveStreamEndedEvent struct {
	shared.BaseDomainEvent
	StreamID    uuid.UUID `json:"stream_id"`
	ViewerCount int       `json:"viewer_count"`
	PeakViewers int       `json:"peak_viewers"`
}

// NewLiveStreamEndedEvent creates a new LiveStreamEndedEvent
func NewLiveStreamEndedEvent(s *LiveStream) *LiveStreamEndedEvent {
	return &LiveStreamEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLiveEnded, AggregateTypeLiveStream, s.ID),
		StreamID:        s.ID,
		ViewerCount:     s.ViewerCount,
		PeakViewers:     s.PeakViewers,
	}
}

// CommentOrderPlacedEvent is published when a chat comment turns into an order
type CommentOrderPlacedEvent struct {
	shared.BaseDomainEvent
	StreamID  uuid.UUID `json:"stream_id"`
	CommentID uuid.UUID `json:"comment_id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// NewCommentOrderPlacedEvent creates a new CommentOrderPlacedEvent
func NewCommentOrderPlacedEvent(c *LiveComment) *CommentOrderPlacedEvent {
	evt := &CommentOrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLiveCommentOrder, AggregateTypeLiveStream, c.LiveStreamID),
		StreamID:        c.LiveStreamID,
		CommentID:       c.ID,
		Quantity:        c.Quantity,
	}
	if c.OrderID != nil {
		evt.OrderID = *c.OrderID
	}
	if c.ProductID != nil {
		evt.ProductID = *c.ProductID
	}
	return evt
}

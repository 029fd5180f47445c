package live

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	privilegePublish = "publish"
	privilegePlay    = "play"
)

// ErrStreamNotLive is returned for viewer actions on a stream that is not on air
var ErrStreamNotLive = shared.NewDomainError("STREAM_NOT_LIVE", "Live stream is not on air")

// TokenProvider issues streaming-provider room tokens
type TokenProvider interface {
	IssueRoomToken(roomID, userID string, publish bool) (string, time.Time, error)
}

// StreamService handles live stream sessions and their audience
type StreamService struct {
	streamRepo  live.LiveStreamRepository
	productRepo catalog.ProductRepository
	viewers     live.ViewerCounter
	tokens      TokenProvider
	publisher   shared.EventPublisher
}

// NewStreamService creates a new StreamService
func NewStreamService(
	streamRepo live.LiveStreamRepository,
	productRepo catalog.ProductRepository,
	viewers live.ViewerCounter,
	tokens TokenProvider,
	publisher shared.EventPublisher,
) *StreamService {
	return &StreamService{
		streamRepo:  streamRepo,
		productRepo: productRepo,
		viewers:     viewers,
		tokens:      tokens,
		publisher:   publisher,
	}
}

// List retrieves streams for the back office
func (s *StreamService) List(ctx context.Context, filter StreamListFilter) ([]StreamResponse, int64, error) {
	f := filter.filter()
	f.Search = filter.Search
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.HostID != nil {
		f.Filters["host_id"] = *filter.HostID
	}
	return s.list(ctx, f)
}

// ListPublic retrieves streams that are on air or upcoming
func (s *StreamService) ListPublic(ctx context.Context, params PageParams) ([]StreamResponse, int64, error) {
	f := params.filter()
	f.OrderBy = "scheduled_at"
	f.OrderDir = "asc"
	f.Filters["status"] = []string{string(live.StreamStatusLive), string(live.StreamStatusScheduled)}
	return s.list(ctx, f)
}

func (s *StreamService) list(ctx context.Context, f shared.Filter) ([]StreamResponse, int64, error) {
	streams, err := s.streamRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.streamRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StreamResponse, len(streams))
	for i := range streams {
		s.overlayViewers(ctx, &streams[i])
		out[i] = ToStreamResponse(&streams[i])
	}
	return out, total, nil
}

// GetByID retrieves a stream; a live stream reports its current audience
func (s *StreamService) GetByID(ctx context.Context, id uuid.UUID) (*StreamResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.overlayViewers(ctx, stream)
	resp := ToStreamResponse(stream)
	return &resp, nil
}

// overlayViewers copies the counter values onto a live stream. Counter
// failures fall back to the persisted values.
func (s *StreamService) overlayViewers(ctx context.Context, stream *live.LiveStream) {
	if !stream.IsLive() {
		return
	}
	current, peak, err := s.viewers.Get(ctx, stream.ID)
	if err != nil {
		logger.L(ctx).Warn("viewer counter unavailable",
			zap.String("stream_id", stream.ID.String()),
			zap.Error(err))
		return
	}
	stream.SyncViewers(int(current), int(peak))
}

// Create schedules a new stream hosted by the given admin
func (s *StreamService) Create(ctx context.Context, hostID uuid.UUID, req CreateStreamRequest) (*StreamResponse, error) {
	stream, err := live.NewLiveStream(req.Title, req.Description, hostID, req.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if err := s.streamRepo.Save(ctx, stream); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("live stream created",
		zap.String("stream_id", stream.ID.String()),
		zap.String("room_id", stream.RoomID))

	resp := ToStreamResponse(stream)
	return &resp, nil
}

// Update changes the title, description and schedule of a stream
func (s *StreamService) Update(ctx context.Context, id uuid.UUID, req UpdateStreamRequest) (*StreamResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := stream.Update(req.Title, req.Description, req.ScheduledAt); err != nil {
		return nil, err
	}
	if err := s.streamRepo.Save(ctx, stream); err != nil {
		return nil, err
	}
	resp := ToStreamResponse(stream)
	return &resp, nil
}

// Delete removes a stream that is not on air
func (s *StreamService) Delete(ctx context.Context, id uuid.UUID) error {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if stream.IsLive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a live stream while it is on air")
	}
	return s.streamRepo.Delete(ctx, id)
}

// Start puts a scheduled stream on air and returns the host's publish token
func (s *StreamService) Start(ctx context.Context, id uuid.UUID) (*StartStreamResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		return nil, err
	}

	host, err := s.issueToken(stream.RoomID, stream.HostID.String(), true)
	if err != nil {
		return nil, err
	}
	if err := s.streamRepo.Save(ctx, stream); err != nil {
		return nil, err
	}
	if err := s.viewers.Reset(ctx, stream.ID); err != nil {
		logger.L(ctx).Warn("failed to reset viewer counter",
			zap.String("stream_id", stream.ID.String()),
			zap.Error(err))
	}
	s.publish(ctx, stream)
	logger.L(ctx).Info("live stream started",
		zap.String("stream_id", stream.ID.String()),
		zap.String("room_id", stream.RoomID))

	return &StartStreamResponse{Stream: ToStreamResponse(stream), Host: *host}, nil
}

// End takes a stream off air and persists its final audience counters
func (s *StreamService) End(ctx context.Context, id uuid.UUID) (*StreamResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !stream.IsLive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot end live stream in "+string(stream.Status)+" status")
	}

	current, peak, err := s.viewers.Get(ctx, stream.ID)
	if err != nil {
		logger.L(ctx).Warn("viewer counter unavailable, keeping last known counts",
			zap.String("stream_id", stream.ID.String()),
			zap.Error(err))
		current, peak = int64(stream.ViewerCount), int64(stream.PeakViewers)
	}
	if err := stream.End(int(current), int(peak)); err != nil {
		return nil, err
	}
	if err := s.streamRepo.Save(ctx, stream); err != nil {
		return nil, err
	}
	if err := s.viewers.Reset(ctx, stream.ID); err != nil {
		logger.L(ctx).Warn("failed to reset viewer counter",
			zap.String("stream_id", stream.ID.String()),
			zap.Error(err))
	}
	s.publish(ctx, stream)
	logger.L(ctx).Info("live stream ended",
		zap.String("stream_id", stream.ID.String()),
		zap.Int("peak_viewers", stream.PeakViewers),
		zap.Duration("duration", stream.Duration(time.Now())))

	resp := ToStreamResponse(stream)
	return &resp, nil
}

// SyncViewerCounts writes the audience counters of every live stream back
// to storage and returns how many streams were updated. Streams whose
// counter cannot be read keep their stored values.
func (s *StreamService) SyncViewerCounts(ctx context.Context) (int, error) {
	f := shared.DefaultFilter()
	f.PageSize = 0
	f.Filters = map[string]interface{}{"status": string(live.StreamStatusLive)}
	streams, err := s.streamRepo.FindAll(ctx, f)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range streams {
		stream := &streams[i]
		current, peak, err := s.viewers.Get(ctx, stream.ID)
		if err != nil {
			logger.L(ctx).Warn("viewer counter unavailable, skipping sync",
				zap.String("stream_id", stream.ID.String()),
				zap.Error(err))
			continue
		}
		if int(current) == stream.ViewerCount && int(peak) <= stream.PeakViewers {
			continue
		}
		stream.SyncViewers(int(current), int(peak))
		if err := s.streamRepo.Save(ctx, stream); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}

// Join counts a viewer in and returns a play token. An empty viewerID is
// an anonymous guest.
func (s *StreamService) Join(ctx context.Context, id uuid.UUID, viewerID string) (*JoinResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !stream.IsLive() {
		return nil, ErrStreamNotLive
	}
	if viewerID == "" {
		viewerID = "guest-" + uuid.NewString()
	}

	token, err := s.issueToken(stream.RoomID, viewerID, false)
	if err != nil {
		return nil, err
	}
	current, peak, err := s.viewers.Join(ctx, stream.ID)
	if err != nil {
		return nil, err
	}
	return &JoinResponse{ViewerCount: current, PeakViewers: peak, Viewer: *token}, nil
}

// Leave counts a viewer out
func (s *StreamService) Leave(ctx context.Context, id uuid.UUID) (*LeaveResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !stream.IsLive() {
		return nil, ErrStreamNotLive
	}
	current, err := s.viewers.Leave(ctx, stream.ID)
	if err != nil {
		return nil, err
	}
	return &LeaveResponse{ViewerCount: current}, nil
}

// Pin highlights an active product on the stream; a nil product clears the pin
func (s *StreamService) Pin(ctx context.Context, id uuid.UUID, req PinProductRequest) (*StreamResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+product.SKU+" is not available")
		}
	}
	if err := stream.PinProduct(req.ProductID); err != nil {
		return nil, err
	}
	if err := s.streamRepo.Save(ctx, stream); err != nil {
		return nil, err
	}
	resp := ToStreamResponse(stream)
	return &resp, nil
}

func (s *StreamService) issueToken(roomID, userID string, publish bool) (*RoomTokenResponse, error) {
	token, expiresAt, err := s.tokens.IssueRoomToken(roomID, userID, publish)
	if err != nil {
		return nil, err
	}
	privilege := privilegePlay
	if publish {
		privilege = privilegePublish
	}
	return &RoomTokenResponse{RoomID: roomID, Token: token, Privilege: privilege, ExpiresAt: expiresAt}, nil
}

func (s *StreamService) publish(ctx context.Context, stream *live.LiveStream) {
	if err := shared.PublishAndClear(ctx, s.publisher, stream); err != nil {
		logger.L(ctx).Warn("failed to publish live stream events",
			zap.String("stream_id", stream.ID.String()),
			zap.Error(err))
	}
}

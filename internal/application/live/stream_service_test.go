package live

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type streamFixture struct {
	streams   *MockStreamRepository
	products  *MockProductRepository
	viewers   *memoryViewers
	tokens    *stubTokens
	publisher *recordingPublisher
	service   *StreamService
}

func newStreamFixture() *streamFixture {
	f := &streamFixture{
		streams:   new(MockStreamRepository),
		products:  new(MockProductRepository),
		viewers:   newMemoryViewers(),
		tokens:    &stubTokens{},
		publisher: &recordingPublisher{},
	}
	f.service = NewStreamService(f.streams, f.products, f.viewers, f.tokens, f.publisher)
	return f
}

func newScheduledStream(t *testing.T) *live.LiveStream {
	t.Helper()
	s, err := live.NewLiveStream("Flash sale Friday", "", uuid.New(), nil)
	require.NoError(t, err)
	return s
}

func newOnAirStream(t *testing.T) *live.LiveStream {
	t.Helper()
	s := newScheduledStream(t)
	require.NoError(t, s.Start())
	s.ClearDomainEvents()
	return s
}

func newActiveProduct(t *testing.T, sku string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, decimal.NewFromInt(price), 50)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestStreamService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("goes on air with a publish token", func(t *testing.T) {
		f := newStreamFixture()
		stream := newScheduledStream(t)
		f.viewers.current[stream.ID] = 7
		f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
		f.streams.On("Save", ctx, stream).Return(nil)

		resp, err := f.service.Start(ctx, stream.ID)
		require.NoError(t, err)

		assert.Equal(t, "live", resp.Stream.Status)
		assert.NotNil(t, resp.Stream.StartedAt)
		assert.Equal(t, privilegePublish, resp.Host.Privilege)
		assert.Equal(t, stream.RoomID, resp.Host.RoomID)
		assert.Equal(t, "publish:"+stream.RoomID+":"+stream.HostID.String(), resp.Host.Token)
		assert.Equal(t, []string{live.EventTypeLiveStarted}, f.publisher.types())

		current, _, _ := f.viewers.Get(ctx, stream.ID)
		assert.Zero(t, current, "counter is reset when the stream starts")
	})

	t.Run("already live", func(t *testing.T) {
		f := newStreamFixture()
		stream := newOnAirStream(t)
		f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)

		_, err := f.service.Start(ctx, stream.ID)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		f.streams.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("unknown stream", func(t *testing.T) {
		f := newStreamFixture()
		id := uuid.New()
		f.streams.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Start(ctx, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestStreamService_JoinAndLeave(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	stream := newOnAirStream(t)
	f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)

	first, err := f.service.Join(ctx, stream.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ViewerCount)
	assert.Equal(t, privilegePlay, first.Viewer.Privilege)
	assert.True(t, strings.HasPrefix(first.Viewer.Token, "play:"+stream.RoomID+":guest-"))

	second, err := f.service.Join(ctx, stream.ID, "user-42")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ViewerCount)
	assert.Equal(t, int64(2), second.PeakViewers)
	assert.Equal(t, "play:"+stream.RoomID+":user-42", second.Viewer.Token)

	for _, want := range []int64{1, 0, 0} {
		left, err := f.service.Leave(ctx, stream.ID)
		require.NoError(t, err)
		assert.Equal(t, want, left.ViewerCount)
	}

	_, peak, _ := f.viewers.Get(ctx, stream.ID)
	assert.Equal(t, int64(2), peak)
}

func TestStreamService_JoinRequiresLiveStream(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	stream := newScheduledStream(t)
	f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)

	_, err := f.service.Join(ctx, stream.ID, "user-1")
	assert.True(t, errors.Is(err, ErrStreamNotLive))

	_, err = f.service.Leave(ctx, stream.ID)
	assert.True(t, errors.Is(err, ErrStreamNotLive))
	assert.Empty(t, f.tokens.issued)
}

func TestStreamService_EndPersistsAudience(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	stream := newOnAirStream(t)
	f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
	f.streams.On("Save", ctx, stream).Return(nil)

	for i := 0; i < 3; i++ {
		_, err := f.service.Join(ctx, stream.ID, "")
		require.NoError(t, err)
	}
	_, err := f.service.Leave(ctx, stream.ID)
	require.NoError(t, err)

	resp, err := f.service.End(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, "ended", resp.Status)
	assert.Equal(t, 2, resp.ViewerCount)
	assert.Equal(t, 3, resp.PeakViewers)
	assert.Equal(t, []string{live.EventTypeLiveEnded}, f.publisher.types())

	current, peak, _ := f.viewers.Get(ctx, stream.ID)
	assert.Zero(t, current)
	assert.Zero(t, peak)
}

func TestStreamService_EndFallsBackWhenCounterFails(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	stream := newOnAirStream(t)
	stream.SyncViewers(4, 9)
	f.viewers.err = errors.New("redis: connection refused")
	f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
	f.streams.On("Save", ctx, stream).Return(nil)

	resp, err := f.service.End(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.ViewerCount)
	assert.Equal(t, 9, resp.PeakViewers)
}

func TestStreamService_GetByIDOverlaysLiveCount(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	stream := newOnAirStream(t)
	f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
	_, _, _ = f.viewers.Join(ctx, stream.ID)
	_, _, _ = f.viewers.Join(ctx, stream.ID)

	resp, err := f.service.GetByID(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ViewerCount)
	assert.Equal(t, 2, resp.PeakViewers)
}

func TestStreamService_ListPublic(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	onAir := newOnAirStream(t)
	upcoming := newScheduledStream(t)
	_, _, _ = f.viewers.Join(ctx, onAir.ID)

	isPublic := mock.MatchedBy(func(filter shared.Filter) bool {
		statuses, ok := filter.Filters["status"].([]string)
		return ok && len(statuses) == 2 &&
			statuses[0] == "live" && statuses[1] == "scheduled" &&
			filter.OrderBy == "scheduled_at"
	})
	f.streams.On("FindAll", ctx, isPublic).Return([]live.LiveStream{*onAir, *upcoming}, nil)
	f.streams.On("Count", ctx, isPublic).Return(int64(2), nil)

	streams, total, err := f.service.ListPublic(ctx, PageParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, streams, 2)
	assert.Equal(t, 1, streams[0].ViewerCount)
	assert.Equal(t, 0, streams[1].ViewerCount)
}

func TestStreamService_Pin(t *testing.T) {
	ctx := context.Background()

	t.Run("active product", func(t *testing.T) {
		f := newStreamFixture()
		stream := newOnAirStream(t)
		product := newActiveProduct(t, "TS-01", 75000)
		f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.streams.On("Save", ctx, stream).Return(nil)

		resp, err := f.service.Pin(ctx, stream.ID, PinProductRequest{ProductID: &product.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.PinnedProductID)
		assert.Equal(t, product.ID, *resp.PinnedProductID)
	})

	t.Run("inactive product", func(t *testing.T) {
		f := newStreamFixture()
		stream := newOnAirStream(t)
		product := newActiveProduct(t, "TS-02", 75000)
		require.NoError(t, product.Deactivate())
		f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.Pin(ctx, stream.ID, PinProductRequest{ProductID: &product.ID})
		assert.True(t, errors.Is(err, shared.NewDomainError("PRODUCT_INACTIVE", "")))
		f.streams.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("clear pin", func(t *testing.T) {
		f := newStreamFixture()
		stream := newOnAirStream(t)
		pinned := uuid.New()
		stream.PinnedProductID = &pinned
		f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)
		f.streams.On("Save", ctx, stream).Return(nil)

		resp, err := f.service.Pin(ctx, stream.ID, PinProductRequest{})
		require.NoError(t, err)
		assert.Nil(t, resp.PinnedProductID)
		f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestStreamService_DeleteLiveStreamRejected(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	stream := newOnAirStream(t)
	f.streams.On("FindByID", ctx, stream.ID).Return(stream, nil)

	err := f.service.Delete(ctx, stream.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	f.streams.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStreamService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newStreamFixture()
	hostID := uuid.New()
	f.streams.On("Save", ctx, mock.AnythingOfType("*live.LiveStream")).Return(nil)

	created, err := f.service.Create(ctx, hostID, CreateStreamRequest{Title: "  Weekend drop  "})
	require.NoError(t, err)
	assert.Equal(t, "Weekend drop", created.Title)
	assert.Equal(t, "scheduled", created.Status)
	assert.Equal(t, hostID, created.HostID)
	assert.True(t, strings.HasPrefix(created.RoomID, "room_"))

	_, err = f.service.Create(ctx, hostID, CreateStreamRequest{Title: "   "})
	assert.Error(t, err)
}

func TestStreamService_SyncViewerCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("persists changed counters of live streams", func(t *testing.T) {
		f := newStreamFixture()
		busy := newOnAirStream(t)
		idle := newOnAirStream(t)
		f.viewers.current[busy.ID] = 12
		f.viewers.peak[busy.ID] = 30

		f.streams.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.PageSize == 0 && filter.Filters["status"] == string(live.StreamStatusLive)
		})).Return([]live.LiveStream{*busy, *idle}, nil)

		var saved []*live.LiveStream
		f.streams.On("Save", ctx, mock.AnythingOfType("*live.LiveStream")).
			Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*live.LiveStream)) }).
			Return(nil)

		n, err := f.service.SyncViewerCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		require.Len(t, saved, 1)
		assert.Equal(t, busy.ID, saved[0].ID)
		assert.Equal(t, 12, saved[0].ViewerCount)
		assert.Equal(t, 30, saved[0].PeakViewers)
	})

	t.Run("skips streams when the counter is down", func(t *testing.T) {
		f := newStreamFixture()
		stream := newOnAirStream(t)
		f.viewers.err = errors.New("redis down")
		f.streams.On("FindAll", ctx, mock.Anything).Return([]live.LiveStream{*stream}, nil)

		n, err := f.service.SyncViewerCounts(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		f.streams.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("returns save failures", func(t *testing.T) {
		f := newStreamFixture()
		stream := newOnAirStream(t)
		f.viewers.current[stream.ID] = 3
		f.streams.On("FindAll", ctx, mock.Anything).Return([]live.LiveStream{*stream}, nil)
		f.streams.On("Save", ctx, mock.Anything).Return(errors.New("db gone"))

		_, err := f.service.SyncViewerCounts(ctx)
		assert.Error(t, err)
	})
}

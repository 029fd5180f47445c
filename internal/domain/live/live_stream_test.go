package live

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, code, de.Code)
}

func TestNewLiveStream(t *testing.T) {
	stream, err := NewLiveStream("Flash Sale", "", uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, StreamStatusScheduled, stream.Status)
	assert.True(t, strings.HasPrefix(stream.RoomID, "room_"))

	_, err = NewLiveStream(" ", "", uuid.New(), nil)
	requireCode(t, err, "INVALID_TITLE")

	_, err = NewLiveStream("x", "", uuid.Nil, nil)
	requireCode(t, err, "INVALID_HOST")
}

func TestLiveStream_Lifecycle(t *testing.T) {
	stream, err := NewLiveStream("Flash Sale", "", uuid.New(), nil)
	require.NoError(t, err)

	requireCode(t, stream.End(0, 0), "INVALID_STATE")
	require.NoError(t, stream.Start())
	assert.True(t, stream.IsLive())
	requireCode(t, stream.Start(), "INVALID_STATE")

	productID := uuid.New()
	require.NoError(t, stream.PinProduct(&productID))
	assert.Equal(t, productID, *stream.PinnedProductID)

	stream.SyncViewers(12, 30)
	assert.Equal(t, 30, stream.PeakViewers)
	stream.SyncViewers(5, 10)
	assert.Equal(t, 30, stream.PeakViewers, "peak never decreases")

	require.NoError(t, stream.End(3, 31))
	assert.Equal(t, StreamStatusEnded, stream.Status)
	assert.Equal(t, 3, stream.ViewerCount)
	assert.Equal(t, 31, stream.PeakViewers)
	assert.NotNil(t, stream.EndedAt)

	requireCode(t, stream.PinProduct(nil), "INVALID_STATE")
	requireCode(t, stream.Update("New", "", nil), "INVALID_STATE")

	events := stream.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeLiveStarted, events[0].EventType())
	assert.Equal(t, EventTypeLiveEnded, events[1].EventType())
}

func TestLiveStream_SyncViewersClampsNegative(t *testing.T) {
	stream, err := NewLiveStream("Flash Sale", "", uuid.New(), nil)
	require.NoError(t, err)
	stream.SyncViewers(-4, 0)
	assert.Equal(t, 0, stream.ViewerCount)
}

func TestNewLiveComment(t *testing.T) {
	streamID := uuid.New()
	c, err := NewLiveComment(streamID, uuid.New(), "budi", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Message)
	assert.False(t, c.IsOrder)

	orderID, productID := uuid.New(), uuid.New()
	c.MarkOrdered(productID, 2, orderID)
	assert.True(t, c.IsOrder)
	assert.Equal(t, orderID, *c.OrderID)

	evt := NewCommentOrderPlacedEvent(c)
	assert.Equal(t, streamID, evt.StreamID)
	assert.Equal(t, productID, evt.ProductID)

	_, err = NewLiveComment(streamID, uuid.New(), "budi", " ")
	requireCode(t, err, "INVALID_COMMENT")
	_, err = NewLiveComment(streamID, uuid.New(), "budi", strings.Repeat("a", MaxCommentLength+1))
	requireCode(t, err, "INVALID_COMMENT")
}

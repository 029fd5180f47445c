package live

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	streams   *MockStreamRepository
	comments  *MockCommentRepository
	products  *MockProductRepository
	users     *MockUserRepository
	orders    *MockOrderPlacer
	publisher *recordingPublisher
	service   *CommentService

	stream *live.LiveStream
	user   *identity.User
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	user, err := identity.NewUser("081234567890", "Siti")
	require.NoError(t, err)
	user.ClearDomainEvents()

	f := &commentFixture{
		streams:   new(MockStreamRepository),
		comments:  new(MockCommentRepository),
		products:  new(MockProductRepository),
		users:     new(MockUserRepository),
		orders:    new(MockOrderPlacer),
		publisher: &recordingPublisher{},
		stream:    newOnAirStream(t),
		user:      user,
	}
	f.service = NewCommentService(f.streams, f.comments, f.products, f.users, f.orders, f.publisher)
	f.streams.On("FindByID", mock.Anything, f.stream.ID).Return(f.stream, nil)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	return f
}

func (f *commentFixture) liveOrder(t *testing.T, p *catalog.Product, qty int) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder("ORD7", trade.Customer{UserID: &f.user.ID, Name: f.user.Name, Phone: f.user.Phone}, trade.OrderSourceLive)
	require.NoError(t, err)
	o.AttachLiveStream(f.stream.ID)
	require.NoError(t, o.AddItem(p.ID, p.SKU, p.Name, p.Price, qty))
	require.NoError(t, o.Place())
	o.ClearDomainEvents()
	return o
}

func TestCommentService_PlainChat(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

	resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "  is the blue one restocked?  "})
	require.NoError(t, err)

	assert.False(t, resp.IsOrder)
	assert.Equal(t, "is the blue one restocked?", resp.Message)
	assert.Equal(t, "Siti", resp.Username)
	assert.Nil(t, resp.OrderID)
	f.orders.AssertNotCalled(t, "CreateLiveOrder", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.types())
}

func TestCommentService_OrderWithSKU(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	product := newActiveProduct(t, "TS-01", 75000)
	order := f.liveOrder(t, product, 2)

	f.products.On("FindBySKU", ctx, "TS-01").Return(product, nil)
	f.orders.On("CreateLiveOrder", ctx, apptrade.LiveOrderInput{
		StreamID:  f.stream.ID,
		UserID:    f.user.ID,
		Name:      "Siti",
		Phone:     f.user.Phone,
		ProductID: product.ID,
		Quantity:  2,
	}).Return(order, nil)
	f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

	resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order #ts-01 x2"})
	require.NoError(t, err)

	f.comments.AssertNumberOfCalls(t, "Save", 2)
	saved := f.comments.Calls[1].Arguments.Get(1).(*live.LiveComment)
	assert.True(t, saved.IsOrder)
	require.NotNil(t, saved.OrderID)
	assert.Equal(t, order.ID, *saved.OrderID)

	assert.True(t, resp.IsOrder)
	assert.Equal(t, 2, resp.Quantity)
	assert.Equal(t, "ORD7", resp.OrderNumber)
	require.NotNil(t, resp.ProductID)
	assert.Equal(t, product.ID, *resp.ProductID)
	assert.Equal(t, []string{live.EventTypeLiveCommentOrder}, f.publisher.types())
}

func TestCommentService_OrderUsesPinnedProduct(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	product := newActiveProduct(t, "HOODIE-9", 180000)
	f.stream.PinnedProductID = &product.ID
	order := f.liveOrder(t, product, 3)

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.orders.On("CreateLiveOrder", ctx, mock.MatchedBy(func(in apptrade.LiveOrderInput) bool {
		return in.ProductID == product.ID && in.Quantity == 3
	})).Return(order, nil)
	f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

	resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "Beli 3"})
	require.NoError(t, err)
	assert.True(t, resp.IsOrder)
	assert.Equal(t, 3, resp.Quantity)
}

func TestCommentService_UnfulfillableOrderIsKeptAsChat(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing pinned", func(t *testing.T) {
		f := newCommentFixture(t)
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

		resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order 2"})
		require.NoError(t, err)
		assert.False(t, resp.IsOrder)
		f.orders.AssertNotCalled(t, "CreateLiveOrder", mock.Anything, mock.Anything)
	})

	t.Run("unknown sku", func(t *testing.T) {
		f := newCommentFixture(t)
		f.products.On("FindBySKU", ctx, "NOPE-1").Return(nil, shared.ErrNotFound)
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

		resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "buy #nope-1"})
		require.NoError(t, err)
		assert.False(t, resp.IsOrder)
	})

	t.Run("unknown sku does not fall back to the pinned product", func(t *testing.T) {
		f := newCommentFixture(t)
		pinned := newActiveProduct(t, "HOODIE-9", 180000)
		f.stream.PinnedProductID = &pinned.ID
		f.products.On("FindBySKU", ctx, "TSHIRT-RED").Return(nil, shared.ErrNotFound)
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

		resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order TSHIRT-RED 2"})
		require.NoError(t, err)
		assert.False(t, resp.IsOrder)
		f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "CreateLiveOrder", mock.Anything, mock.Anything)
	})

	t.Run("order rejected by business rule", func(t *testing.T) {
		f := newCommentFixture(t)
		product := newActiveProduct(t, "TS-01", 75000)
		f.products.On("FindBySKU", ctx, "TS-01").Return(product, nil)
		f.orders.On("CreateLiveOrder", ctx, mock.Anything).
			Return(nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product TS-01 is not available"))
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

		resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "pesan TS-01"})
		require.NoError(t, err)
		assert.False(t, resp.IsOrder)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("quantity out of range", func(t *testing.T) {
		f := newCommentFixture(t)
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

		resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order #TS-01 x500"})
		require.NoError(t, err)
		assert.False(t, resp.IsOrder)
		f.products.AssertNotCalled(t, "FindBySKU", mock.Anything, mock.Anything)
	})
}

func TestCommentService_InfrastructureErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	product := newActiveProduct(t, "TS-01", 75000)
	f.products.On("FindBySKU", ctx, "TS-01").Return(product, nil)
	f.orders.On("CreateLiveOrder", ctx, mock.Anything).Return(nil, errors.New("connection reset"))
	f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil)

	_, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order TS-01"})
	assert.EqualError(t, err, "connection reset")
	f.comments.AssertNumberOfCalls(t, "Save", 1)
}

func TestCommentService_CommentStoredBeforeOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("failed comment write places no order", func(t *testing.T) {
		f := newCommentFixture(t)
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(errors.New("disk full"))

		_, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order #TS-01 x2"})
		assert.EqualError(t, err, "disk full")
		f.products.AssertNotCalled(t, "FindBySKU", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "CreateLiveOrder", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("failed link keeps the placed order", func(t *testing.T) {
		f := newCommentFixture(t)
		product := newActiveProduct(t, "TS-01", 75000)
		order := f.liveOrder(t, product, 1)
		f.products.On("FindBySKU", ctx, "TS-01").Return(product, nil)
		f.orders.On("CreateLiveOrder", ctx, mock.Anything).Return(order, nil)
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(nil).Once()
		f.comments.On("Save", ctx, mock.AnythingOfType("*live.LiveComment")).Return(errors.New("deadlock")).Once()

		resp, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "order TS-01"})
		require.NoError(t, err)
		assert.True(t, resp.IsOrder)
		assert.Equal(t, "ORD7", resp.OrderNumber)
	})
}

func TestCommentService_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("stream not live", func(t *testing.T) {
		f := newCommentFixture(t)
		scheduled := newScheduledStream(t)
		f.streams.On("FindByID", ctx, scheduled.ID).Return(scheduled, nil)

		_, err := f.service.Post(ctx, scheduled.ID, f.user.ID, PostCommentRequest{Message: "hi"})
		assert.True(t, errors.Is(err, ErrStreamNotLive))
	})

	t.Run("blocked user", func(t *testing.T) {
		f := newCommentFixture(t)
		require.NoError(t, f.user.Block())

		_, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "hi"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "USER_BLOCKED", domainErr.Code)
	})

	t.Run("empty message", func(t *testing.T) {
		f := newCommentFixture(t)

		_, err := f.service.Post(ctx, f.stream.ID, f.user.ID, PostCommentRequest{Message: "   "})
		assert.Error(t, err)
		f.comments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCommentService_List(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	c, err := live.NewLiveComment(f.stream.ID, uuid.New(), "Andi", "order 1")
	require.NoError(t, err)

	ordersOnly := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["is_order"] == true && filter.Page == 2
	})
	f.comments.On("FindByStream", ctx, f.stream.ID, ordersOnly).Return([]live.LiveComment{*c}, nil)
	f.comments.On("CountByStream", ctx, f.stream.ID, ordersOnly).Return(int64(21), nil)

	comments, total, err := f.service.List(ctx, f.stream.ID, CommentListFilter{
		PageParams: PageParams{Page: 2},
		OrdersOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, comments, 1)
	assert.Equal(t, "Andi", comments[0].Username)
}

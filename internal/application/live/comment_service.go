package live

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/domain/trade"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errUserBlocked = shared.NewDomainError("USER_BLOCKED", "This account has been blocked")

// OrderPlacer creates pending orders for live-stream viewers
type OrderPlacer interface {
	CreateLiveOrder(ctx context.Context, in apptrade.LiveOrderInput) (*trade.Order, error)
}

// CommentService stores live chat and turns order comments into orders
type CommentService struct {
	streamRepo  live.LiveStreamRepository
	commentRepo live.LiveCommentRepository
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	orders      OrderPlacer
	publisher   shared.EventPublisher
}

// NewCommentService creates a new CommentService
func NewCommentService(
	streamRepo live.LiveStreamRepository,
	commentRepo live.LiveCommentRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	orders OrderPlacer,
	publisher shared.EventPublisher,
) *CommentService {
	return &CommentService{
		streamRepo:  streamRepo,
		commentRepo: commentRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		orders:      orders,
		publisher:   publisher,
	}
}

// Post stores a chat message from a user watching a live stream. Messages
// that parse as an order and resolve to a product create a pending order
// linked to the comment; everything else is kept as plain chat.
func (s *CommentService) Post(ctx context.Context, streamID, userID uuid.UUID, req PostCommentRequest) (*CommentResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if !stream.IsLive() {
		return nil, ErrStreamNotLive
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, errUserBlocked
	}

	comment, err := live.NewLiveComment(stream.ID, user.ID, displayName(user), req.Message)
	if err != nil {
		return nil, err
	}

	// Persisted before any order is created.
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	parsed, ok := live.ParseCommentOrder(comment.Message)
	if !ok {
		resp := ToCommentResponse(comment)
		return &resp, nil
	}
	order, err := s.placeOrder(ctx, stream, user, parsed)
	if err != nil {
		return nil, err
	}
	if order == nil {
		resp := ToCommentResponse(comment)
		return &resp, nil
	}

	comment.MarkOrdered(order.Items[0].ProductID, parsed.Quantity, order.ID)
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		// The order stands; it still carries the stream and the buyer.
		logger.L(ctx).Error("failed to link comment to order",
			zap.String("comment_id", comment.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}

	resp := ToCommentResponse(comment)
	resp.OrderNumber = order.OrderNumber
	s.publish(ctx, comment)
	logger.L(ctx).Info("order placed from live comment",
		zap.String("stream_id", stream.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("quantity", comment.Quantity))
	return &resp, nil
}

// placeOrder returns a nil order when the comment cannot be fulfilled, so
// it falls back to plain chat. Only infrastructure errors are returned.
func (s *CommentService) placeOrder(ctx context.Context, stream *live.LiveStream, user *identity.User, parsed live.CommentOrder) (*trade.Order, error) {
	product, err := s.resolveProduct(ctx, stream, parsed.SKU)
	if err != nil || product == nil {
		return nil, err
	}

	order, err := s.orders.CreateLiveOrder(ctx, apptrade.LiveOrderInput{
		StreamID:  stream.ID,
		UserID:    user.ID,
		Name:      displayName(user),
		Phone:     user.Phone,
		ProductID: product.ID,
		Quantity:  parsed.Quantity,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			logger.L(ctx).Info("comment order rejected, kept as chat",
				zap.String("stream_id", stream.ID.String()),
				zap.String("sku", product.SKU),
				zap.String("reason", domainErr.Code))
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// resolveProduct finds the product a comment refers to. No SKU means the
// pinned product.
func (s *CommentService) resolveProduct(ctx context.Context, stream *live.LiveStream, sku string) (*catalog.Product, error) {
	var (
		product *catalog.Product
		err     error
	)
	switch {
	case sku != "":
		product, err = s.productRepo.FindBySKU(ctx, catalog.NormalizeSKU(sku))
	case stream.PinnedProductID != nil:
		product, err = s.productRepo.FindByID(ctx, *stream.PinnedProductID)
	default:
		return nil, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return product, err
}

// List retrieves the chat history of a stream, newest first
func (s *CommentService) List(ctx context.Context, streamID uuid.UUID, filter CommentListFilter) ([]CommentResponse, int64, error) {
	if _, err := s.streamRepo.FindByID(ctx, streamID); err != nil {
		return nil, 0, err
	}
	f := filter.filter()
	f.Search = strings.TrimSpace(filter.Search)
	if filter.OrdersOnly {
		f.Filters["is_order"] = true
	}

	comments, err := s.commentRepo.FindByStream(ctx, streamID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.commentRepo.CountByStream(ctx, streamID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out, total, nil
}

func (s *CommentService) publish(ctx context.Context, comment *live.LiveComment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, live.NewCommentOrderPlacedEvent(comment)); err != nil {
		logger.L(ctx).Warn("failed to publish comment order event",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err))
	}
}

func displayName(u *identity.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Phone
}

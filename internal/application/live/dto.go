package live

import (
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PageParams are paging query parameters
type PageParams struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (p PageParams) filter() shared.Filter {
	f := shared.DefaultFilter()
	if p.Page > 0 {
		f.Page = p.Page
	}
	if p.PageSize > 0 {
		f.PageSize = p.PageSize
	}
	return f
}

// CreateStreamRequest schedules a live stream
type CreateStreamRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdateStreamRequest replaces the descriptive fields of a stream
type UpdateStreamRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// PinProductRequest pins a product; a null product id clears the pin
type PinProductRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
}

// StreamListFilter represents filter options for the stream list
type StreamListFilter struct {
	PageParams
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=scheduled live ended"`
	HostID   *uuid.UUID `form:"host_id"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StreamResponse represents a live stream in API responses
type StreamResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	HostID          uuid.UUID  `json:"host_id"`
	RoomID          string     `json:"room_id"`
	Status          string     `json:"status"`
	ViewerCount     int        `json:"viewer_count"`
	PeakViewers     int        `json:"peak_viewers"`
	PinnedProductID *uuid.UUID `json:"pinned_product_id,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToStreamResponse converts a domain LiveStream to StreamResponse
func ToStreamResponse(s *live.LiveStream) StreamResponse {
	return StreamResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		HostID:          s.HostID,
		RoomID:          s.RoomID,
		Status:          string(s.Status),
		ViewerCount:     s.ViewerCount,
		PeakViewers:     s.PeakViewers,
		PinnedProductID: s.PinnedProductID,
		ScheduledAt:     s.ScheduledAt,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: int64(s.Duration(time.Now()).Seconds()),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// RoomTokenResponse carries a streaming provider token
type RoomTokenResponse struct {
	RoomID    string    `json:"room_id"`
	Token     string    `json:"token"`
	Privilege string    `json:"privilege"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StartStreamResponse is returned when a stream goes on air
type StartStreamResponse struct {
	Stream StreamResponse    `json:"stream"`
	Host   RoomTokenResponse `json:"host_token"`
}

// JoinResponse is returned to a viewer entering a stream
type JoinResponse struct {
	ViewerCount int64             `json:"viewer_count"`
	PeakViewers int64             `json:"peak_viewers"`
	Viewer      RoomTokenResponse `json:"viewer_token"`
}

// LeaveResponse is returned to a viewer leaving a stream
type LeaveResponse struct {
	ViewerCount int64 `json:"viewer_count"`
}

// PostCommentRequest posts a chat message
type PostCommentRequest struct {
	Message string `json:"message" binding:"required,min=1,max=500"`
}

// CommentListFilter represents filter options for the chat history
type CommentListFilter struct {
	PageParams
	Search     string `form:"search"`
	OrdersOnly bool   `form:"orders_only"`
}

// CommentResponse represents a chat comment in API responses
type CommentResponse struct {
	ID           uuid.UUID  `json:"id"`
	LiveStreamID uuid.UUID  `json:"live_stream_id"`
	UserID       uuid.UUID  `json:"user_id"`
	Username     string     `json:"username"`
	Message      string     `json:"message"`
	IsOrder      bool       `json:"is_order"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	Quantity     int        `json:"quantity,omitempty"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
	OrderNumber  string     `json:"order_number,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToCommentResponse converts a domain LiveComment to CommentResponse
func ToCommentResponse(c *live.LiveComment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		LiveStreamID: c.LiveStreamID,
		UserID:       c.UserID,
		Username:     c.Username,
		Message:      c.Message,
		IsOrder:      c.IsOrder,
		ProductID:    c.ProductID,
		Quantity:     c.Quantity,
		OrderID:      c.OrderID,
		CreatedAt:    c.CreatedAt,
	}
}

// VoucherRequest creates or updates a live voucher. Code is ignored on update.
type VoucherRequest struct {
	Code         string          `json:"code" binding:"omitempty,min=3,max=32"`
	DiscountType string          `json:"discount_type" binding:"required,oneof=fixed percent"`
	Value        decimal.Decimal `json:"value" swaggertype:"string" example:"10"`
	MinPurchase  decimal.Decimal `json:"min_purchase" swaggertype:"string" example:"100000"`
	MaxDiscount  decimal.Decimal `json:"max_discount" swaggertype:"string" example:"25000"`
	Quota        int             `json:"quota" binding:"required,min=1"`
	StartsAt     *time.Time      `json:"starts_at"`
	EndsAt       *time.Time      `json:"ends_at"`
}

func (r VoucherRequest) terms() live.VoucherTerms {
	return live.VoucherTerms{
		DiscountType: live.DiscountType(r.DiscountType),
		Value:        r.Value,
		MinPurchase:  r.MinPurchase,
		MaxDiscount:  r.MaxDiscount,
		Quota:        r.Quota,
		StartsAt:     r.StartsAt,
		EndsAt:       r.EndsAt,
	}
}

// VoucherResponse represents a live voucher in API responses
type VoucherResponse struct {
	ID           uuid.UUID       `json:"id"`
	LiveStreamID uuid.UUID       `json:"live_stream_id"`
	Code         string          `json:"code"`
	DiscountType string          `json:"discount_type"`
	Value        decimal.Decimal `json:"value" swaggertype:"string"`
	MinPurchase  decimal.Decimal `json:"min_purchase" swaggertype:"string"`
	MaxDiscount  decimal.Decimal `json:"max_discount" swaggertype:"string"`
	Quota        int             `json:"quota"`
	UsedCount    int             `json:"used_count"`
	Remaining    int             `json:"remaining"`
	StartsAt     *time.Time      `json:"starts_at,omitempty"`
	EndsAt       *time.Time      `json:"ends_at,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToVoucherResponse converts a domain LiveVoucher to VoucherResponse
func ToVoucherResponse(v *live.LiveVoucher) VoucherResponse {
	return VoucherResponse{
		ID:           v.ID,
		LiveStreamID: v.LiveStreamID,
		Code:         v.Code,
		DiscountType: string(v.DiscountType),
		Value:        v.Value,
		MinPurchase:  v.MinPurchase,
		MaxDiscount:  v.MaxDiscount,
		Quota:        v.Quota,
		UsedCount:    v.UsedCount,
		Remaining:    v.Remaining(),
		StartsAt:     v.StartsAt,
		EndsAt:       v.EndsAt,
		Active:       v.Active,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// VoucherCheckRequest previews a voucher against a purchase amount
type VoucherCheckRequest struct {
	Code   string          `json:"code" binding:"required,min=3,max=32"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"150000"`
}

// VoucherCheckResponse is the discount a voucher would grant
type VoucherCheckResponse struct {
	Code      string          `json:"code"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	Discount  decimal.Decimal `json:"discount" swaggertype:"string"`
	Total     decimal.Decimal `json:"total" swaggertype:"string"`
	Remaining int             `json:"remaining"`
}

// ConfirmLiveOrderRequest confirms a live order, optionally with a voucher
type ConfirmLiveOrderRequest struct {
	VoucherCode string `json:"voucher_code" binding:"omitempty,min=3,max=32"`
}

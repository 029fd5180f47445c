package messaging

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// InboundWebhookRequest is a message delivered by the WhatsApp provider
type InboundWebhookRequest struct {
	MessageID string `json:"message_id" binding:"required,max=100"`
	From      string `json:"from" binding:"required,max=32"`
	Body      string `json:"body" binding:"required,max=4096"`
}

// StatusCallbackRequest is a delivery status update from the provider
type StatusCallbackRequest struct {
	MessageID string `json:"message_id" binding:"required,max=100"`
	Status    string `json:"status" binding:"required,oneof=queued sent delivered read failed"`
	Error     string `json:"error" binding:"max=500"`
}

// SendMessageRequest sends a message from the back office
type SendMessageRequest struct {
	Phone string `json:"phone" binding:"required,max=32"`
	Body  string `json:"body" binding:"required,min=1,max=4096"`
}

// MessageListFilter represents filter options for the message list
type MessageListFilter struct {
	Search    string `form:"search"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Phone     string `form:"phone"`
	Direction string `form:"direction" binding:"omitempty,oneof=inbound outbound"`
	Status    string `form:"status" binding:"omitempty,oneof=received queued sent delivered read failed"`
}

func (f MessageListFilter) filter() shared.Filter {
	out := shared.DefaultFilter()
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	out.Search = strings.TrimSpace(f.Search)
	if f.Phone != "" {
		out.Filters["phone"] = messaging.NormalizePhone(f.Phone)
	}
	if f.Direction != "" {
		out.Filters["direction"] = f.Direction
	}
	if f.Status != "" {
		out.Filters["status"] = f.Status
	}
	return out
}

// MessageResponse represents a WhatsApp message in API responses
type MessageResponse struct {
	ID                uuid.UUID  `json:"id"`
	Phone             string     `json:"phone"`
	Direction         string     `json:"direction"`
	Body              string     `json:"body"`
	Status            string     `json:"status"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	AutoReplyID       *uuid.UUID `json:"auto_reply_id,omitempty"`
	Error             string     `json:"error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToMessageResponse converts a domain WhatsAppMessage to MessageResponse
func ToMessageResponse(m *messaging.WhatsAppMessage) MessageResponse {
	return MessageResponse{
		ID:                m.ID,
		Phone:             m.Phone,
		Direction:         string(m.Direction),
		Body:              m.Body,
		Status:            string(m.Status),
		ProviderMessageID: m.ProviderMessageID,
		AutoReplyID:       m.AutoReplyID,
		Error:             m.Error,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// InboundResult reports what happened to an inbound message
type InboundResult struct {
	Message   MessageResponse  `json:"message"`
	Reply     *MessageResponse `json:"reply,omitempty"`
	Duplicate bool             `json:"duplicate"`
}

// AutoReplyRequest creates or updates an auto-reply rule
type AutoReplyRequest struct {
	Name      string   `json:"name" binding:"required,min=1,max=100"`
	Keywords  []string `json:"keywords" binding:"required,min=1,max=50,dive,min=1,max=100"`
	MatchType string   `json:"match_type" binding:"required,oneof=exact contains starts_with"`
	Response  string   `json:"response" binding:"required,min=1,max=4096"`
	Priority  int      `json:"priority" binding:"min=0,max=1000"`
	Active    *bool    `json:"active"`
}

func (r AutoReplyRequest) input() messaging.AutoReplyInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return messaging.AutoReplyInput{
		Name:      r.Name,
		Keywords:  r.Keywords,
		MatchType: messaging.MatchType(r.MatchType),
		Response:  r.Response,
		Priority:  r.Priority,
		Active:    active,
	}
}

// AutoReplyListFilter represents filter options for the rule list
type AutoReplyListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Active   *bool  `form:"active"`
}

// AutoReplyResponse represents an auto-reply rule in API responses
type AutoReplyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Keywords  []string  `json:"keywords"`
	MatchType string    `json:"match_type"`
	Response  string    `json:"response"`
	Priority  int       `json:"priority"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAutoReplyResponse converts a domain AutoReply to AutoReplyResponse
func ToAutoReplyResponse(r *messaging.AutoReply) AutoReplyResponse {
	return AutoReplyResponse{
		ID:        r.ID,
		Name:      r.Name,
		Keywords:  r.Keywords,
		MatchType: string(r.MatchType),
		Response:  r.Response,
		Priority:  r.Priority,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AutoReplyTestRequest previews which rule answers a message
type AutoReplyTestRequest struct {
	Message string `json:"message" binding:"required,min=1,max=4096"`
}

// AutoReplyTestResponse is the outcome of an auto-reply preview
type AutoReplyTestResponse struct {
	Matched bool               `json:"matched"`
	Rule    *AutoReplyResponse `json:"rule,omitempty"`
}

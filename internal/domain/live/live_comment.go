package live

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// MaxCommentLength is the longest accepted chat message, in runes
const MaxCommentLength = 500

// LiveComment is a chat message posted during a live stream.
// Comments that parse as an order are linked to the order they created.
type LiveComment struct {
	ID           uuid.UUID
	LiveStreamID uuid.UUID
	UserID       uuid.UUID
	Username     string
	Message      string
	IsOrder      bool
	ProductID    *uuid.UUID
	Quantity     int
	OrderID      *uuid.UUID
	CreatedAt    time.Time
}

// NewLiveComment creates a plain chat comment
func NewLiveComment(streamID, userID uuid.UUID, username, message string) (*LiveComment, error) {
	if streamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STREAM", "Live stream ID cannot be empty")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot be empty")
	}
	if utf8.RuneCountInString(message) > MaxCommentLength {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment is too long")
	}
	return &LiveComment{
		ID:           uuid.New(),
		LiveStreamID: streamID,
		UserID:       userID,
		Username:     username,
		Message:      message,
		CreatedAt:    time.Now(),
	}, nil
}

// MarkOrdered links the comment to the order it produced
func (c *LiveComment) MarkOrdered(productID uuid.UUID, quantity int, orderID uuid.UUID) {
	c.IsOrder = true
	c.ProductID = &productID
	c.Quantity = quantity
	c.OrderID = &orderID
}

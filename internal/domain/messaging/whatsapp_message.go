package messaging

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// Direction tells whether a message was received or sent
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MessageStatus is the delivery status of a WhatsApp message
type MessageStatus string

const (
	MessageStatusReceived  MessageStatus = "received"
	MessageStatusQueued    MessageStatus = "queued"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusFailed    MessageStatus = "failed"
)

// IsValid checks if the status is known
func (s MessageStatus) IsValid() bool {
	switch s {
	case MessageStatusReceived, MessageStatusQueued, MessageStatusSent,
		MessageStatusDelivered, MessageStatusRead, MessageStatusFailed:
		return true
	}
	return false
}

// outbound progress order; a callback never moves a message backwards
var outboundRank = map[MessageStatus]int{
	MessageStatusQueued:    1,
	MessageStatusSent:      2,
	MessageStatusDelivered: 3,
	MessageStatusRead:      4,
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// MaxMessageLength is the longest body accepted, in bytes
const MaxMessageLength = 4096

// WhatsAppMessage is a single inbound or outbound WhatsApp message
type WhatsAppMessage struct {
	ID                uuid.UUID
	Phone             string
	Direction         Direction
	Body              string
	Status            MessageStatus
	ProviderMessageID string
	AutoReplyID       *uuid.UUID
	Error             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewInboundMessage records a message received from a customer
func NewInboundMessage(phone, body, providerMessageID string) (*WhatsAppMessage, error) {
	return newMessage(phone, body, DirectionInbound, MessageStatusReceived, providerMessageID)
}

// NewOutboundMessage creates a queued message to a customer
func NewOutboundMessage(phone, body string) (*WhatsAppMessage, error) {
	return newMessage(phone, body, DirectionOutbound, MessageStatusQueued, "")
}

func newMessage(phone, body string, dir Direction, status MessageStatus, providerID string) (*WhatsAppMessage, error) {
	phone = NormalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number must contain 8 to 15 digits")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot be empty")
	}
	if len(body) > MaxMessageLength {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body is too long")
	}
	now := time.Now()
	return &WhatsAppMessage{
		ID:                uuid.New(),
		Phone:             phone,
		Direction:         dir,
		Body:              body,
		Status:            status,
		ProviderMessageID: providerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MarkSent records the provider acceptance of an outbound message
func (m *WhatsAppMessage) MarkSent(providerMessageID string) error {
	if m.Direction != DirectionOutbound {
		return shared.NewDomainError("INVALID_STATE", "Only outbound messages can be sent")
	}
	if m.Status != MessageStatusQueued {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark message sent in %s status", m.Status))
	}
	m.Status = MessageStatusSent
	m.ProviderMessageID = providerMessageID
	m.UpdatedAt = time.Now()
	return nil
}

// MarkFailed records a delivery failure
func (m *WhatsAppMessage) MarkFailed(reason string) {
	m.Status = MessageStatusFailed
	m.Error = reason
	m.UpdatedAt = time.Now()
}

// ApplyStatus applies a provider status callback. Stale callbacks that would
// move an outbound message backwards are ignored and report false.
func (m *WhatsAppMessage) ApplyStatus(status MessageStatus, reason string) (bool, error) {
	if !status.IsValid() || status == MessageStatusReceived {
		return false, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown message status %q", status))
	}
	if m.Direction != DirectionOutbound {
		return false, shared.NewDomainError("INVALID_STATE", "Status callbacks only apply to outbound messages")
	}
	if m.Status == MessageStatusFailed {
		return false, nil
	}
	if status == MessageStatusFailed {
		m.MarkFailed(reason)
		return true, nil
	}
	if outboundRank[status] <= outboundRank[m.Status] {
		return false, nil
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	return true, nil
}

// NormalizePhone strips spaces, dashes and parentheses from a phone number
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// ValidPhone reports whether a normalized phone number is acceptable
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

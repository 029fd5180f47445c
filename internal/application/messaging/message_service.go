package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Sender hands an outbound message to the WhatsApp provider
type Sender interface {
	// Send returns the provider's message id
	Send(ctx context.Context, phone, body string) (string, error)
}

// MessageService handles inbound webhooks, auto-replies and outbound messages
type MessageService struct {
	messageRepo   messaging.MessageRepository
	autoReplyRepo messaging.AutoReplyRepository
	sender        Sender
	publisher     shared.EventPublisher
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo messaging.MessageRepository,
	autoReplyRepo messaging.AutoReplyRepository,
	sender Sender,
	publisher shared.EventPublisher,
) *MessageService {
	return &MessageService{
		messageRepo:   messageRepo,
		autoReplyRepo: autoReplyRepo,
		sender:        sender,
		publisher:     publisher,
	}
}

// HandleInbound stores a message received from a customer and answers it
// with the matching auto-reply, if any. Provider retries of the same message
// id are acknowledged without a second reply.
func (s *MessageService) HandleInbound(ctx context.Context, req InboundWebhookRequest) (*InboundResult, error) {
	existing, err := s.messageRepo.FindByProviderID(ctx, req.MessageID)
	if err == nil {
		return &InboundResult{Message: ToMessageResponse(existing), Duplicate: true}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	inbound, err := messaging.NewInboundMessage(req.From, req.Body, req.MessageID)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, inbound); err != nil {
		return nil, err
	}
	result := &InboundResult{Message: ToMessageResponse(inbound)}

	rules, err := s.autoReplyRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	var ruleID *uuid.UUID
	if rule := messaging.SelectAutoReply(rules, inbound.Body); rule != nil {
		ruleID = &rule.ID
		reply, err := messaging.NewOutboundMessage(inbound.Phone, rule.Response)
		if err != nil {
			return nil, err
		}
		reply.AutoReplyID = &rule.ID
		if _, err := s.deliver(ctx, reply); err != nil {
			logger.L(ctx).Warn("auto-reply not delivered",
				zap.String("phone", inbound.Phone),
				zap.String("rule", rule.Name),
				zap.Error(err))
		}
		resp := ToMessageResponse(reply)
		result.Reply = &resp
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, messaging.NewInboundReceivedEvent(inbound, ruleID)); err != nil {
			logger.L(ctx).Warn("failed to publish inbound message event",
				zap.String("message_id", inbound.ID.String()),
				zap.Error(err))
		}
	}
	return result, nil
}

// HandleStatus applies a provider delivery status callback
func (s *MessageService) HandleStatus(ctx context.Context, req StatusCallbackRequest) (*MessageResponse, error) {
	msg, err := s.messageRepo.FindByProviderID(ctx, req.MessageID)
	if err != nil {
		return nil, err
	}
	changed, err := msg.ApplyStatus(messaging.MessageStatus(req.Status), req.Error)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.messageRepo.Save(ctx, msg); err != nil {
			return nil, err
		}
	}
	resp := ToMessageResponse(msg)
	return &resp, nil
}

// Send sends a message typed by an admin. A provider failure is recorded
// on the message rather than returned.
func (s *MessageService) Send(ctx context.Context, req SendMessageRequest) (*MessageResponse, error) {
	msg, err := messaging.NewOutboundMessage(req.Phone, req.Body)
	if err != nil {
		return nil, err
	}
	saved, err := s.deliver(ctx, msg)
	if !saved {
		return nil, err
	}
	if err != nil {
		logger.L(ctx).Warn("outbound message failed",
			zap.String("phone", msg.Phone),
			zap.Error(err))
	}
	resp := ToMessageResponse(msg)
	return &resp, nil
}

// SendText sends a system message such as an OTP or an order notification
func (s *MessageService) SendText(ctx context.Context, phone, body string) error {
	msg, err := messaging.NewOutboundMessage(phone, body)
	if err != nil {
		return err
	}
	_, err = s.deliver(ctx, msg)
	return err
}

// deliver stores a queued message, sends it and records the outcome. saved
// reports whether the message row exists.
func (s *MessageService) deliver(ctx context.Context, msg *messaging.WhatsAppMessage) (saved bool, err error) {
	if err := s.messageRepo.Save(ctx, msg); err != nil {
		return false, err
	}

	providerID, sendErr := s.sender.Send(ctx, msg.Phone, msg.Body)
	if sendErr != nil {
		msg.MarkFailed(sendErr.Error())
	} else if err := msg.MarkSent(providerID); err != nil {
		return true, err
	}
	if err := s.messageRepo.Save(ctx, msg); err != nil {
		return true, err
	}
	if sendErr != nil {
		return true, fmt.Errorf("send whatsapp message: %w", sendErr)
	}
	return true, nil
}

// List retrieves messages with filtering and pagination
func (s *MessageService) List(ctx context.Context, filter MessageListFilter) ([]MessageResponse, int64, error) {
	return s.list(ctx, filter.filter())
}

// Conversation retrieves the messages exchanged with one phone number, newest first
func (s *MessageService) Conversation(ctx context.Context, phone string, page, pageSize int) ([]MessageResponse, int64, error) {
	phone = messaging.NormalizePhone(phone)
	if !messaging.ValidPhone(phone) {
		return nil, 0, shared.NewDomainError("INVALID_PHONE", "Phone number must contain 8 to 15 digits")
	}
	return s.list(ctx, MessageListFilter{Phone: phone, Page: page, PageSize: pageSize}.filter())
}

func (s *MessageService) list(ctx context.Context, f shared.Filter) ([]MessageResponse, int64, error) {
	messages, err := s.messageRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.messageRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MessageResponse, len(messages))
	for i := range messages {
		out[i] = ToMessageResponse(&messages[i])
	}
	return out, total, nil
}

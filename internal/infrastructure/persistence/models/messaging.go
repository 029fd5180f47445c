package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
)

// WhatsAppMessageModel stores inbound and outbound WhatsApp messages
type WhatsAppMessageModel struct {
	ID                uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Phone             string                  `gorm:"type:varchar(20);not null;index"`
	Direction         messaging.Direction     `gorm:"type:varchar(10);not null"`
	Body              string                  `gorm:"type:text;not null"`
	Status            messaging.MessageStatus `gorm:"type:varchar(20);not null;index"`
	ProviderMessageID string                  `gorm:"type:varchar(100);index"`
	AutoReplyID       *uuid.UUID              `gorm:"type:uuid"`
	Error             string                  `gorm:"type:varchar(500)"`
	CreatedAt         time.Time               `gorm:"not null;index"`
	UpdatedAt         time.Time               `gorm:"not null"`
}

func (WhatsAppMessageModel) TableName() string { return "whatsapp_messages" }

func (m *WhatsAppMessageModel) ToDomain() *messaging.WhatsAppMessage {
	return &messaging.WhatsAppMessage{
		ID:                m.ID,
		Phone:             m.Phone,
		Direction:         m.Direction,
		Body:              m.Body,
		Status:            m.Status,
		ProviderMessageID: m.ProviderMessageID,
		AutoReplyID:       m.AutoReplyID,
		Error:             m.Error,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func WhatsAppMessageModelFromDomain(msg *messaging.WhatsAppMessage) *WhatsAppMessageModel {
	return &WhatsAppMessageModel{
		ID:                msg.ID,
		Phone:             msg.Phone,
		Direction:         msg.Direction,
		Body:              msg.Body,
		Status:            msg.Status,
		ProviderMessageID: msg.ProviderMessageID,
		AutoReplyID:       msg.AutoReplyID,
		Error:             msg.Error,
		CreatedAt:         msg.CreatedAt,
		UpdatedAt:         msg.UpdatedAt,
	}
}

// AutoReplyModel stores keyword rules; keywords are a JSON array column
type AutoReplyModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name      string              `gorm:"type:varchar(100);not null"`
	Keywords  []string            `gorm:"type:text;serializer:json;not null"`
	MatchType messaging.MatchType `gorm:"type:varchar(20);not null"`
	Response  string              `gorm:"type:text;not null"`
	Priority  int                 `gorm:"not null;default:0;index"`
	Active    bool                `gorm:"not null"`
	CreatedAt time.Time           `gorm:"not null"`
	UpdatedAt time.Time           `gorm:"not null"`
}

func (AutoReplyModel) TableName() string { return "auto_replies" }

func (m *AutoReplyModel) ToDomain() *messaging.AutoReply {
	return &messaging.AutoReply{
		ID:        m.ID,
		Name:      m.Name,
		Keywords:  append([]string(nil), m.Keywords...),
		MatchType: m.MatchType,
		Response:  m.Response,
		Priority:  m.Priority,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func AutoReplyModelFromDomain(r *messaging.AutoReply) *AutoReplyModel {
	return &AutoReplyModel{
		ID:        r.ID,
		Name:      r.Name,
		Keywords:  append([]string(nil), r.Keywords...),
		MatchType: r.MatchType,
		Response:  r.Response,
		Priority:  r.Priority,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

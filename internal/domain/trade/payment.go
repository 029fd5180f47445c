package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the channel a payment was made through
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodEWallet      PaymentMethod = "ewallet"
	PaymentMethodCard         PaymentMethod = "card"
)

// IsValid checks if the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodEWallet, PaymentMethodCard:
		return true
	}
	return false
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment records money received against an order
type Payment struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID
	Method        PaymentMethod
	Amount        decimal.Decimal
	Status        PaymentStatus
	Reference     string
	Note          string
	FailureReason string
	PaidAt        *time.Time
	RefundedAt    *time.Time
}

// NewPayment creates a pending payment for an order
func NewPayment(orderID uuid.UUID, method PaymentMethod, amount decimal.Decimal) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Method:            method,
		Amount:            amount,
		Status:            PaymentStatusPending,
	}, nil
}

// MarkPaid settles a pending payment
func (p *Payment) MarkPaid(reference string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark payment paid in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PaymentStatusPaid
	if reference != "" {
		p.Reference = reference
	}
	p.PaidAt = &now
	p.touch(now)
	return nil
}

// MarkFailed records that the payment did not go through
func (p *Payment) MarkFailed(reason string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail payment in %s status", p.Status))
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = strings.TrimSpace(reason)
	p.touch(time.Now())
	return nil
}

// Refund returns a settled payment
func (p *Payment) Refund(note string) error {
	if p.Status != PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund payment in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundedAt = &now
	if note != "" {
		p.Note = note
	}
	p.touch(now)
	return nil
}

func (p *Payment) touch(now time.Time) {
	p.UpdatedAt = now
	p.IncrementVersion()
}

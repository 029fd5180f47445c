package live

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType decides how a voucher value is interpreted
type DiscountType string

const (
	DiscountTypeFixed   DiscountType = "fixed"
	DiscountTypePercent DiscountType = "percent"
)

// IsValid checks if the discount type is known
func (t DiscountType) IsValid() bool {
	return t == DiscountTypeFixed || t == DiscountTypePercent
}

var voucherCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

var hundred = decimal.NewFromInt(100)

// VoucherTerms are the mutable terms of a voucher
type VoucherTerms struct {
	DiscountType DiscountType
	Value        decimal.Decimal
	MinPurchase  decimal.Decimal
	MaxDiscount  decimal.Decimal // zero means uncapped; percent vouchers only
	Quota        int
	StartsAt     *time.Time
	EndsAt       *time.Time
}

// LiveVoucher is a discount code scoped to a single live stream
type LiveVoucher struct {
	shared.BaseAggregateRoot
	LiveStreamID uuid.UUID
	Code         string
	DiscountType DiscountType
	Value        decimal.Decimal
	MinPurchase  decimal.Decimal
	MaxDiscount  decimal.Decimal
	Quota        int
	UsedCount    int
	StartsAt     *time.Time
	EndsAt       *time.Time
	Active       bool
}

// NewLiveVoucher creates an active voucher for a live stream
func NewLiveVoucher(streamID uuid.UUID, code string, terms VoucherTerms) (*LiveVoucher, error) {
	if streamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STREAM", "Live stream ID cannot be empty")
	}
	code = NormalizeVoucherCode(code)
	if !voucherCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_VOUCHER_CODE", "Voucher code must be 3-32 letters, digits, '-' or '_'")
	}
	v := &LiveVoucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LiveStreamID:      streamID,
		Code:              code,
		Active:            true,
	}
	if err := v.applyTerms(terms); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateTerms replaces the voucher terms; the quota cannot drop below usage
func (v *LiveVoucher) UpdateTerms(terms VoucherTerms) error {
	if terms.Quota < v.UsedCount {
		return shared.NewDomainError("INVALID_QUOTA", fmt.Sprintf("Quota cannot be lower than used count %d", v.UsedCount))
	}
	if err := v.applyTerms(terms); err != nil {
		return err
	}
	v.touch()
	return nil
}

func (v *LiveVoucher) applyTerms(t VoucherTerms) error {
	if !t.DiscountType.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_TYPE", fmt.Sprintf("Unknown discount type %q", t.DiscountType))
	}
	if !t.Value.IsPositive() {
		return shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value must be positive")
	}
	if t.DiscountType == DiscountTypePercent && t.Value.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percent discount cannot exceed 100")
	}
	if t.MinPurchase.IsNegative() || t.MaxDiscount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	if t.Quota < 1 {
		return shared.NewDomainError("INVALID_QUOTA", "Quota must be at least 1")
	}
	if t.StartsAt != nil && t.EndsAt != nil && !t.EndsAt.After(*t.StartsAt) {
		return shared.NewDomainError("INVALID_PERIOD", "Voucher must end after it starts")
	}
	v.DiscountType = t.DiscountType
	v.Value = t.Value
	v.MinPurchase = t.MinPurchase
	v.MaxDiscount = t.MaxDiscount
	v.Quota = t.Quota
	v.StartsAt = t.StartsAt
	v.EndsAt = t.EndsAt
	return nil
}

// Deactivate stops the voucher from being redeemed
func (v *LiveVoucher) Deactivate() error {
	if !v.Active {
		return shared.NewDomainError("INVALID_STATE", "Voucher is already inactive")
	}
	v.Active = false
	v.touch()
	return nil
}

// Remaining returns how many redemptions are left
func (v *LiveVoucher) Remaining() int {
	if v.UsedCount >= v.Quota {
		return 0
	}
	return v.Quota - v.UsedCount
}

// Evaluate checks the voucher against a purchase amount at a point in time
// and returns the discount it grants.
func (v *LiveVoucher) Evaluate(amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !v.Active {
		return decimal.Zero, shared.NewDomainError("VOUCHER_INACTIVE", "Voucher is not active")
	}
	if v.StartsAt != nil && now.Before(*v.StartsAt) {
		return decimal.Zero, shared.NewDomainError("VOUCHER_NOT_STARTED", "Voucher is not valid yet")
	}
	if v.EndsAt != nil && !now.Before(*v.EndsAt) {
		return decimal.Zero, shared.NewDomainError("VOUCHER_EXPIRED", "Voucher has expired")
	}
	if v.Remaining() == 0 {
		return decimal.Zero, shared.NewDomainError("VOUCHER_EXHAUSTED", "Voucher quota has been used up")
	}
	if amount.LessThan(v.MinPurchase) {
		return decimal.Zero, shared.NewDomainError("VOUCHER_MIN_PURCHASE",
			fmt.Sprintf("Minimum purchase for this voucher is %s", v.MinPurchase.StringFixed(2)))
	}
	return v.DiscountFor(amount), nil
}

// DiscountFor computes the discount for an amount without eligibility checks
func (v *LiveVoucher) DiscountFor(amount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch v.DiscountType {
	case DiscountTypePercent:
		discount = amount.Mul(v.Value).Div(hundred).Round(2)
		if v.MaxDiscount.IsPositive() && discount.GreaterThan(v.MaxDiscount) {
			discount = v.MaxDiscount
		}
	default:
		discount = v.Value
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	return discount
}

func (v *LiveVoucher) touch() {
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// NormalizeVoucherCode trims and upper-cases a voucher code
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

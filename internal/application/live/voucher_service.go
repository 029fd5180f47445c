package live

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/domain/live"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// VoucherService manages the vouchers of live streams
type VoucherService struct {
	voucherRepo live.LiveVoucherRepository
	streamRepo  live.LiveStreamRepository
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(voucherRepo live.LiveVoucherRepository, streamRepo live.LiveStreamRepository) *VoucherService {
	return &VoucherService{voucherRepo: voucherRepo, streamRepo: streamRepo}
}

// List retrieves all vouchers of a stream
func (s *VoucherService) List(ctx context.Context, streamID uuid.UUID) ([]VoucherResponse, error) {
	if _, err := s.streamRepo.FindByID(ctx, streamID); err != nil {
		return nil, err
	}
	vouchers, err := s.voucherRepo.FindByStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	out := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		out[i] = ToVoucherResponse(&vouchers[i])
	}
	return out, nil
}

// Create adds a voucher to a stream that has not ended. Codes are unique per stream.
func (s *VoucherService) Create(ctx context.Context, streamID uuid.UUID, req VoucherRequest) (*VoucherResponse, error) {
	stream, err := s.streamRepo.FindByID(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if stream.Status == live.StreamStatusEnded {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add vouchers to an ended live stream")
	}
	if req.Code == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_CODE", "Voucher code is required")
	}

	voucher, err := live.NewLiveVoucher(streamID, req.Code, req.terms())
	if err != nil {
		return nil, err
	}
	if _, err := s.voucherRepo.FindByCode(ctx, streamID, voucher.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Voucher code "+voucher.Code+" already exists on this live stream")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.voucherRepo.Save(ctx, voucher); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("live voucher created",
		zap.String("stream_id", streamID.String()),
		zap.String("code", voucher.Code),
		zap.Int("quota", voucher.Quota))

	resp := ToVoucherResponse(voucher)
	return &resp, nil
}

// Update replaces the terms of a voucher; its code is immutable
func (s *VoucherService) Update(ctx context.Context, streamID, voucherID uuid.UUID, req VoucherRequest) (*VoucherResponse, error) {
	voucher, err := s.find(ctx, streamID, voucherID)
	if err != nil {
		return nil, err
	}
	if err := voucher.UpdateTerms(req.terms()); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.Save(ctx, voucher); err != nil {
		return nil, err
	}
	resp := ToVoucherResponse(voucher)
	return &resp, nil
}

// Deactivate stops a voucher from being redeemed
func (s *VoucherService) Deactivate(ctx context.Context, streamID, voucherID uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.find(ctx, streamID, voucherID)
	if err != nil {
		return nil, err
	}
	if err := voucher.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.Save(ctx, voucher); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("live voucher deactivated",
		zap.String("stream_id", streamID.String()),
		zap.String("code", voucher.Code))

	resp := ToVoucherResponse(voucher)
	return &resp, nil
}

// Check previews the discount a voucher grants on an amount without redeeming it
func (s *VoucherService) Check(ctx context.Context, streamID uuid.UUID, req VoucherCheckRequest) (*VoucherCheckResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	voucher, err := s.voucherRepo.FindByCode(ctx, streamID, live.NormalizeVoucherCode(req.Code))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apptrade.ErrInvalidVoucher
		}
		return nil, err
	}
	discount, err := voucher.Evaluate(req.Amount, time.Now())
	if err != nil {
		return nil, err
	}
	return &VoucherCheckResponse{
		Code:      voucher.Code,
		Amount:    req.Amount,
		Discount:  discount,
		Total:     req.Amount.Sub(discount),
		Remaining: voucher.Remaining(),
	}, nil
}

func (s *VoucherService) find(ctx context.Context, streamID, voucherID uuid.UUID) (*live.LiveVoucher, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.LiveStreamID != streamID {
		return nil, shared.ErrNotFound
	}
	return voucher, nil
}

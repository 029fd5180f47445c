package messaging

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AutoReplyService manages keyword-triggered auto-reply rules
type AutoReplyService struct {
	repo messaging.AutoReplyRepository
}

// NewAutoReplyService creates a new AutoReplyService
func NewAutoReplyService(repo messaging.AutoReplyRepository) *AutoReplyService {
	return &AutoReplyService{repo: repo}
}

// List retrieves rules, highest priority first
func (s *AutoReplyService) List(ctx context.Context, filter AutoReplyListFilter) ([]AutoReplyResponse, int64, error) {
	f := shared.DefaultFilter()
	f.OrderBy = "priority"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = strings.TrimSpace(filter.Search)
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}

	rules, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AutoReplyResponse, len(rules))
	for i := range rules {
		out[i] = ToAutoReplyResponse(&rules[i])
	}
	return out, total, nil
}

// GetByID retrieves a rule
func (s *AutoReplyService) GetByID(ctx context.Context, id uuid.UUID) (*AutoReplyResponse, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAutoReplyResponse(rule)
	return &resp, nil
}

// Create adds a rule
func (s *AutoReplyService) Create(ctx context.Context, req AutoReplyRequest) (*AutoReplyResponse, error) {
	rule, err := messaging.NewAutoReply(req.input())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rule); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("auto-reply created",
		zap.String("rule_id", rule.ID.String()),
		zap.Strings("keywords", rule.Keywords))

	resp := ToAutoReplyResponse(rule)
	return &resp, nil
}

// Update replaces a rule's fields
func (s *AutoReplyService) Update(ctx context.Context, id uuid.UUID, req AutoReplyRequest) (*AutoReplyResponse, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := ToAutoReplyResponse(rule)
	return &resp, nil
}

// Delete removes a rule
func (s *AutoReplyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Test shows which active rule, if any, would answer a message
func (s *AutoReplyService) Test(ctx context.Context, req AutoReplyTestRequest) (*AutoReplyTestResponse, error) {
	rules, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	rule := messaging.SelectAutoReply(rules, req.Message)
	if rule == nil {
		return &AutoReplyTestResponse{}, nil
	}
	resp := ToAutoReplyResponse(rule)
	return &AutoReplyTestResponse{Matched: true, Rule: &resp}, nil
}

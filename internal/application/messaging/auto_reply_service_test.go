package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/messaging"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAutoReplyService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAutoReplyRepository)
	repo.On("Save", ctx, mock.AnythingOfType("*messaging.AutoReply")).Return(nil)

	resp, err := NewAutoReplyService(repo).Create(ctx, AutoReplyRequest{
		Name:      "Shipping",
		Keywords:  []string{" Ongkir ", "ongkir", "SHIPPING"},
		MatchType: "contains",
		Response:  "Shipping is free above Rp100.000",
		Priority:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ongkir", "shipping"}, resp.Keywords)
	assert.True(t, resp.Active, "rules are active unless stated otherwise")
}

func TestAutoReplyService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAutoReplyRepository)
	rule := newRule(t, "price", messaging.MatchExact, 1, "harga")
	repo.On("FindByID", ctx, rule.ID).Return(&rule, nil)
	repo.On("Save", ctx, &rule).Return(nil)
	repo.On("Delete", ctx, rule.ID).Return(nil)
	svc := NewAutoReplyService(repo)

	inactive := false
	resp, err := svc.Update(ctx, rule.ID, AutoReplyRequest{
		Name:      "price",
		Keywords:  []string{"harga"},
		MatchType: "starts_with",
		Response:  "Cek katalog ya",
		Active:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "starts_with", resp.MatchType)
	assert.False(t, resp.Active)

	require.NoError(t, svc.Delete(ctx, rule.ID))

	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	err = svc.Delete(ctx, missing)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestAutoReplyService_Test(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAutoReplyRepository)
	older := newRule(t, "older", messaging.MatchContains, 3, "promo")
	newer := newRule(t, "newer", messaging.MatchContains, 3, "promo")
	newer.CreatedAt = older.CreatedAt.Add(1)
	repo.On("FindActive", ctx).Return([]messaging.AutoReply{newer, older}, nil)
	svc := NewAutoReplyService(repo)

	resp, err := svc.Test(ctx, AutoReplyTestRequest{Message: "Ada PROMO hari ini?"})
	require.NoError(t, err)
	require.True(t, resp.Matched)
	assert.Equal(t, "older", resp.Rule.Name, "ties go to the oldest rule")

	resp, err = svc.Test(ctx, AutoReplyTestRequest{Message: "hello"})
	require.NoError(t, err)
	assert.False(t, resp.Matched)
	assert.Nil(t, resp.Rule)
}

func TestAutoReplyService_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAutoReplyRepository)
	activeOnly := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["active"] == true && f.OrderBy == "priority" && f.Search == "promo"
	})
	repo.On("FindAll", ctx, activeOnly).Return([]messaging.AutoReply{newRule(t, "promo", messaging.MatchContains, 1, "promo")}, nil)
	repo.On("Count", ctx, activeOnly).Return(int64(1), nil)

	active := true
	rules, total, err := NewAutoReplyService(repo).List(ctx, AutoReplyListFilter{Search: " promo ", Active: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rules, 1)
}

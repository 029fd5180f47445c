package whatsapp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender("Toko Live", zap.New(core))

	id, err := sender.Send(context.Background(), "+6281234567890", "Your code is 123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "wamid."))

	entries := logs.FilterMessage("whatsapp message sent").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "**********7890", fields["to"])
	assert.Equal(t, id, fields["provider_message_id"])
	assert.NotContains(t, fields, "body")
}

func TestLogSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLogSender("Toko Live", nil).Send(ctx, "+6281234567890", "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

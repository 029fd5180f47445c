package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessages(t *testing.T) {
	m, err := NewInboundMessage("+62 812-3456-7890", " hi ", "wamid.1")
	require.NoError(t, err)
	assert.Equal(t, "+6281234567890", m.Phone)
	assert.Equal(t, "hi", m.Body)
	assert.Equal(t, MessageStatusReceived, m.Status)

	_, err = NewInboundMessage("123", "hi", "")
	assert.Error(t, err)
	_, err = NewOutboundMessage("6281234567890", "  ")
	assert.Error(t, err)
}

func TestWhatsAppMessage_StatusProgress(t *testing.T) {
	m, err := NewOutboundMessage("6281234567890", "Your order is confirmed")
	require.NoError(t, err)
	assert.Equal(t, MessageStatusQueued, m.Status)

	require.NoError(t, m.MarkSent("wamid.2"))
	assert.Error(t, m.MarkSent("wamid.3"))

	changed, err := m.ApplyStatus(MessageStatusRead, "")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.ApplyStatus(MessageStatusDelivered, "")
	require.NoError(t, err)
	assert.False(t, changed, "stale callback must not move status back")
	assert.Equal(t, MessageStatusRead, m.Status)

	_, err = m.ApplyStatus("bogus", "")
	assert.Error(t, err)

	changed, err = m.ApplyStatus(MessageStatusFailed, "expired")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "expired", m.Error)
}

func TestWhatsAppMessage_InboundIgnoresCallbacks(t *testing.T) {
	m, err := NewInboundMessage("6281234567890", "hello", "")
	require.NoError(t, err)
	_, err = m.ApplyStatus(MessageStatusRead, "")
	assert.Error(t, err)
	assert.Error(t, m.MarkSent("x"))
}

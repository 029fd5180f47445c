package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appmessaging "github.com/livecommerce/backend/internal/application/messaging"
	"github.com/livecommerce/backend/internal/infrastructure/event"
	"github.com/livecommerce/backend/internal/infrastructure/persistence"
	"github.com/livecommerce/backend/internal/infrastructure/whatsapp"
	"github.com/livecommerce/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWebhookSecret = "hook-secret"

func newWhatsAppRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newTestDB(t)
	autoReplyRepo := persistence.NewGormAutoReplyRepository(db)
	messages := appmessaging.NewMessageService(
		persistence.NewGormMessageRepository(db),
		autoReplyRepo,
		whatsapp.NewLogSender("Live Shop", zap.NewNop()),
		event.NewInMemoryEventBus(zap.NewNop()),
	)
	h := NewWhatsAppHandler(messages, appmessaging.NewAutoReplyService(autoReplyRepo))

	r := newTestRouter(uuid.New())
	hooks := r.Group("/webhooks/whatsapp", middleware.WebhookToken(testWebhookSecret))
	hooks.POST("", h.Inbound)
	hooks.POST("/status", h.Status)

	admin := r.Group("/admin/whatsapp")
	admin.GET("/messages", h.ListMessages)
	admin.POST("/messages", h.Send)
	admin.GET("/conversations/:phone", h.Conversation)
	admin.POST("/auto-replies", h.CreateAutoReply)
	admin.POST("/auto-replies/test", h.TestAutoReply)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, path string, body any) *appmessaging.InboundResult {
	t.Helper()
	w := doJSONWithHeader(t, r, http.MethodPost, path, body, middleware.WebhookTokenHeader, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result appmessaging.InboundResult
	decodeResponse(t, w, &result)
	return &result
}

func doJSONWithHeader(t *testing.T, r *gin.Engine, method, path string, body any, key, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	req.Header.Set(key, value)
	return serve(r, req)
}

func TestWhatsAppHandler_InboundAutoReply(t *testing.T) {
	r := newWhatsAppRouter(t)

	w := doJSON(t, r, http.MethodPost, "/admin/whatsapp/auto-replies", map[string]any{
		"name":       "Price question",
		"keywords":   []string{"harga"},
		"match_type": "contains",
		"response":   "Prices are shown on the pinned product during the live",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	inbound := map[string]any{"message_id": "wamid.in-1", "from": "0812-3456-7890", "body": "Kak, HARGA berapa?"}
	first := postWebhook(t, r, "/webhooks/whatsapp", inbound)
	assert.False(t, first.Duplicate)
	assert.Equal(t, "081234567890", first.Message.Phone)
	assert.Equal(t, "inbound", first.Message.Direction)
	require.NotNil(t, first.Reply)
	assert.Equal(t, "sent", first.Reply.Status)
	assert.NotEmpty(t, first.Reply.ProviderMessageID)

	t.Run("redelivery is acknowledged without a second reply", func(t *testing.T) {
		again := postWebhook(t, r, "/webhooks/whatsapp", inbound)
		assert.True(t, again.Duplicate)
		assert.Nil(t, again.Reply)
		assert.Equal(t, first.Message.ID, again.Message.ID)
	})

	t.Run("delivery status updates the reply", func(t *testing.T) {
		w := doJSONWithHeader(t, r, http.MethodPost, "/webhooks/whatsapp/status",
			map[string]any{"message_id": first.Reply.ProviderMessageID, "status": "delivered"},
			middleware.WebhookTokenHeader, testWebhookSecret)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var msg appmessaging.MessageResponse
		decodeResponse(t, w, &msg)
		assert.Equal(t, "delivered", msg.Status)
	})

	t.Run("conversation holds both directions", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/admin/whatsapp/conversations/081234567890", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var msgs []appmessaging.MessageResponse
		resp := decodeResponse(t, w, &msgs)
		assert.Len(t, msgs, 2)
		assert.EqualValues(t, 2, resp.Meta.Total)
	})
}

func TestWhatsAppHandler_WebhookRequiresToken(t *testing.T) {
	r := newWhatsAppRouter(t)

	w := doJSON(t, r, http.MethodPost, "/webhooks/whatsapp",
		map[string]any{"message_id": "x", "from": "081234567890", "body": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSONWithHeader(t, r, http.MethodPost, "/webhooks/whatsapp",
		map[string]any{"message_id": "x", "from": "081234567890", "body": "hi"},
		middleware.WebhookTokenHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWhatsAppHandler_SendAndPreview(t *testing.T) {
	r := newWhatsAppRouter(t)

	w := doJSON(t, r, http.MethodPost, "/admin/whatsapp/messages", map[string]any{"phone": "081234567890", "body": "Your order is packed"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sent appmessaging.MessageResponse
	decodeResponse(t, w, &sent)
	assert.Equal(t, "outbound", sent.Direction)
	assert.Equal(t, "sent", sent.Status)

	w = doJSON(t, r, http.MethodPost, "/admin/whatsapp/messages", map[string]any{"phone": "12", "body": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodPost, "/admin/whatsapp/auto-replies/test", map[string]any{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	var preview appmessaging.AutoReplyTestResponse
	decodeResponse(t, w, &preview)
	assert.False(t, preview.Matched)
}

func TestWhatsAppHandler_InactiveAutoReply(t *testing.T) {
	r := newWhatsAppRouter(t)

	w := doJSON(t, r, http.MethodPost, "/admin/whatsapp/auto-replies", map[string]any{
		"name":       "Paused promo",
		"keywords":   []string{"promo"},
		"match_type": "contains",
		"response":   "Promo starts tonight",
		"active":     false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rule appmessaging.AutoReplyResponse
	decodeResponse(t, w, &rule)
	assert.False(t, rule.Active)

	w = doJSON(t, r, http.MethodPost, "/admin/whatsapp/auto-replies/test", map[string]any{"message": "ada promo?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview appmessaging.AutoReplyTestResponse
	decodeResponse(t, w, &preview)
	assert.False(t, preview.Matched)

	result := postWebhook(t, r, "/webhooks/whatsapp",
		map[string]any{"message_id": "wamid.promo-1", "from": "081234567890", "body": "ada promo?"})
	assert.Nil(t, result.Reply)
}

func TestWhatsAppHandler_MessageIDLength(t *testing.T) {
	r := newWhatsAppRouter(t)

	longest := strings.Repeat("a", 100)
	result := postWebhook(t, r, "/webhooks/whatsapp",
		map[string]any{"message_id": longest, "from": "081234567890", "body": "hi"})
	assert.Equal(t, longest, result.Message.ProviderMessageID)

	w := doJSONWithHeader(t, r, http.MethodPost, "/webhooks/whatsapp",
		map[string]any{"message_id": longest + "b", "from": "081234567890", "body": "hi"},
		middleware.WebhookTokenHeader, testWebhookSecret)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSONWithHeader(t, r, http.MethodPost, "/webhooks/whatsapp/status",
		map[string]any{"message_id": longest + "b", "status": "delivered"},
		middleware.WebhookTokenHeader, testWebhookSecret)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

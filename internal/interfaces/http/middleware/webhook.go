package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livecommerce/backend/internal/interfaces/http/dto"
)

// WebhookTokenHeader carries the shared secret of provider callbacks
const WebhookTokenHeader = "X-Webhook-Token"

// WebhookToken authenticates provider callbacks with a shared secret.
// An empty secret rejects every call.
func WebhookToken(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(WebhookTokenHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Invalid webhook token", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livecommerce/backend/internal/interfaces/http/dto"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	Enabled bool
}

// SwaggerProtection hides the API documentation when it is disabled
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
	"github.com/livecommerce/backend/internal/interfaces/http/dto"
)

// RequireAuth rejects anonymous requests on routes where JWT auth was optional
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// RequireKind only lets tokens of the given principal kind through
func RequireKind(kind auth.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if claims.Kind != kind {
			denied(c, "This endpoint is not available for your account type")
			return
		}
		c.Next()
	}
}

// RequirePermission requires a fixed resource:action permission
func RequirePermission(resource, action string) gin.HandlerFunc {
	permission := identity.Permission(resource, action)
	return func(c *gin.Context) {
		if !allowed(c, permission) {
			return
		}
		c.Next()
	}
}

// RequireResource checks permission for a resource with the action derived
// from the HTTP method: GET read, POST create, PUT/PATCH update, DELETE delete
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(c, identity.Permission(resource, methodToAction(c.Request.Method))) {
			return
		}
		c.Next()
	}
}

func allowed(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
		return false
	}
	if !claims.IsAdmin() || !identity.HasPermission(claims.Permissions, permission) {
		denied(c, "Missing permission "+permission)
		return false
	}
	return true
}

func denied(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden, message, GetRequestID(c)))
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return identity.ActionRead
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionRead
	}
}

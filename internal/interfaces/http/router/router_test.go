package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
	"github.com/livecommerce/backend/internal/infrastructure/config"
	"github.com/livecommerce/backend/internal/interfaces/http/handler"
	"github.com/livecommerce/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	r.Use(func(c *gin.Context) { order = append(order, "router"); c.Next() })

	group := NewDomainGroup("test", "/test").Use(func(c *gin.Context) { order = append(order, "group"); c.Next() })
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"router", "group"}, order)
}

func TestDomainGroup(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	g := NewDomainGroup("catalog", "/catalog")
	g.GET("", ok).POST("/items", ok).PUT("/items/:id", ok).PATCH("/items/:id", ok).DELETE("/items/:id", ok)
	sub := g.Group("images", "/items/:id/images")
	sub.POST("", ok)

	assert.Equal(t, "catalog", g.Name())
	assert.Equal(t, "/catalog", g.Prefix())
	assert.Equal(t, []RouteInfo{
		{http.MethodGet, "/catalog"},
		{http.MethodPost, "/catalog/items"},
		{http.MethodPut, "/catalog/items/:id"},
		{http.MethodPatch, "/catalog/items/:id"},
		{http.MethodDelete, "/catalog/items/:id"},
		{http.MethodPost, "/catalog/items/:id/images"},
	}, g.Routes())

	engine := gin.New()
	g.RegisterRoutes(engine.Group("/api/v1"))
	for _, route := range g.Routes() {
		path := "/api/v1" + strings.ReplaceAll(route.Path, ":id", "42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route.Method, path, nil))
		assert.Equal(t, http.StatusNoContent, w.Code, "%s %s", route.Method, path)
	}
}

// emptyHandlers have no services behind them; requests that reach a service
// call would panic, so the tests below only exercise the guards
func emptyHandlers() Handlers {
	return Handlers{
		Auth:        handler.NewAuthHandler(nil),
		Admin:       handler.NewAdminHandler(nil),
		User:        handler.NewUserHandler(nil),
		Product:     handler.NewProductHandler(nil),
		Order:       handler.NewOrderHandler(nil),
		Payment:     handler.NewPaymentHandler(nil),
		Shipment:    handler.NewShipmentHandler(nil),
		LiveStream:  handler.NewLiveStreamHandler(nil),
		LiveComment: handler.NewLiveCommentHandler(nil),
		LiveVoucher: handler.NewLiveVoucherHandler(nil),
		LiveOrder:   handler.NewLiveOrderHandler(nil),
		WhatsApp:    handler.NewWhatsAppHandler(nil, nil),
		Dashboard:   handler.NewDashboardHandler(nil),
		System:      handler.NewSystemHandler("test", "dev", nil),
	}
}

func TestDomainGroups_RouteTable(t *testing.T) {
	seen := make(map[string]bool)
	for _, g := range DomainGroups(emptyHandlers(), "secret") {
		for _, route := range g.Routes() {
			key := route.Method + " " + route.Path
			assert.False(t, seen[key], "duplicate route %s", key)
			seen[key] = true
		}
	}

	for _, key := range []string{
		"POST /auth/login",
		"GET /products/:id",
		"POST /live-streams/:id/comments",
		"POST /webhooks/whatsapp",
		"POST /admin/live-streams/:id/start",
		"POST /admin/live-streams/:id/orders/:orderId/confirm",
		"POST /admin/payments/:id/refund",
		"GET /admin/dashboard",
		"POST /admin/whatsapp/auto-replies/test",
	} {
		assert.True(t, seen[key], "missing route %s", key)
	}
}

func TestDomainGroups_Guards(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test",
	})
	token := func(kind auth.PrincipalKind, role identity.Role) string {
		pair, err := jwtService.GenerateTokenPair(auth.Principal{
			ID:          uuid.New(),
			Kind:        kind,
			Name:        "tester",
			Role:        string(role),
			Permissions: identity.PermissionsFor(role),
		})
		require.NoError(t, err)
		return pair.AccessToken
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := NewRouter(engine)
	skip, skipPrefixes, optional := AuthPaths(r.BasePath())
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:           jwtService,
		SkipPaths:            skip,
		SkipPathPrefixes:     skipPrefixes,
		OptionalPathPrefixes: optional,
	}))
	for _, g := range DomainGroups(emptyHandlers(), "secret") {
		r.Register(g)
	}
	r.Setup()

	operator := token(auth.PrincipalAdmin, identity.RoleOperator)
	customer := token(auth.PrincipalUser, identity.RoleCustomer)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		header map[string]string
		want   int
	}{
		{"admin api needs a token", http.MethodGet, "/api/v1/admin/products", "", nil, http.StatusUnauthorized},
		{"customers cannot use the admin api", http.MethodGet, "/api/v1/admin/dashboard", customer, nil, http.StatusForbidden},
		{"operators cannot create streams", http.MethodPost, "/api/v1/admin/live-streams", operator, nil, http.StatusForbidden},
		{"operators cannot manage admins", http.MethodGet, "/api/v1/admin/admins", operator, nil, http.StatusForbidden},
		{"operators cannot refund", http.MethodPost, "/api/v1/admin/payments/" + uuid.NewString() + "/refund", operator, nil, http.StatusForbidden},
		{"operators reach stream start", http.MethodPost, "/api/v1/admin/live-streams/bad-id/start", operator, nil, http.StatusBadRequest},
		{"storefront is open to guests", http.MethodGet, "/api/v1/products/bad-id", "", nil, http.StatusBadRequest},
		{"guests cannot comment", http.MethodPost, "/api/v1/live-streams/" + uuid.NewString() + "/comments", "", nil, http.StatusUnauthorized},
		{"admins cannot comment", http.MethodPost, "/api/v1/live-streams/" + uuid.NewString() + "/comments", operator, nil, http.StatusForbidden},
		{"webhooks need the shared secret", http.MethodPost, "/api/v1/webhooks/whatsapp", "", nil, http.StatusUnauthorized},
		{"webhooks ignore bearer tokens", http.MethodPost, "/api/v1/webhooks/whatsapp", "", map[string]string{middleware.WebhookTokenHeader: "secret"}, http.StatusBadRequest},
		{"system info is public", http.MethodGet, "/api/v1/system/info", "", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

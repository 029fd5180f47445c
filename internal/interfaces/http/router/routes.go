package router

import (
	"github.com/gin-gonic/gin"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
	"github.com/livecommerce/backend/internal/interfaces/http/handler"
	"github.com/livecommerce/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth        *handler.AuthHandler
	Admin       *handler.AdminHandler
	User        *handler.UserHandler
	Product     *handler.ProductHandler
	Order       *handler.OrderHandler
	Payment     *handler.PaymentHandler
	Shipment    *handler.ShipmentHandler
	LiveStream  *handler.LiveStreamHandler
	LiveComment *handler.LiveCommentHandler
	LiveVoucher *handler.LiveVoucherHandler
	LiveOrder   *handler.LiveOrderHandler
	WhatsApp    *handler.WhatsAppHandler
	Dashboard   *handler.DashboardHandler
	System      *handler.SystemHandler
}

// AuthPaths lists the API paths the JWT middleware lets through without a
// token (skip) and the ones where a token is optional
func AuthPaths(basePath string) (skip, skipPrefixes, optionalPrefixes []string) {
	skip = []string{
		basePath + "/auth/login",
		basePath + "/auth/refresh",
		basePath + "/auth/otp/request",
		basePath + "/auth/otp/verify",
		basePath + "/system/info",
	}
	skipPrefixes = []string{
		basePath + "/webhooks/",
	}
	optionalPrefixes = []string{
		basePath + "/products",
		basePath + "/live-streams",
	}
	return skip, skipPrefixes, optionalPrefixes
}

// DomainGroups builds every API route group. Admin groups require an admin
// token and the resource permission; state transitions (start, confirm,
// ship, ...) need the update permission whatever their HTTP method.
func DomainGroups(h Handlers, webhookSecret string) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h),
		storefrontRoutes(h),
		webhookRoutes(h, webhookSecret),
		adminRoutes(h),
		systemRoutes(h),
	}
}

func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/otp/request", h.Auth.RequestOTP)
	g.POST("/otp/verify", h.Auth.VerifyOTP)
	g.POST("/logout", middleware.RequireAuth(), h.Auth.Logout)
	g.GET("/me", middleware.RequireAuth(), h.Auth.Me)
	return g
}

func storefrontRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("storefront", "")

	g.GET("/products", h.Product.ListPublic)
	g.GET("/products/:id", h.Product.GetPublic)

	streams := g.Group("live-streams", "/live-streams")
	streams.GET("", h.LiveStream.ListPublic)
	streams.GET("/:id", h.LiveStream.GetPublic)
	streams.POST("/:id/join", h.LiveStream.Join)
	streams.POST("/:id/leave", h.LiveStream.Leave)
	streams.GET("/:id/comments", h.LiveComment.List)
	streams.POST("/:id/comments",
		middleware.RequireKind(auth.PrincipalUser),
		h.LiveComment.Post)
	streams.POST("/:id/vouchers/check", h.LiveVoucher.Check)
	return g
}

func webhookRoutes(h Handlers, secret string) *DomainGroup {
	g := NewDomainGroup("webhooks", "/webhooks").Use(middleware.WebhookToken(secret))
	g.POST("/whatsapp", h.WhatsApp.Inbound)
	g.POST("/whatsapp/status", h.WhatsApp.Status)
	return g
}

func adminRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("admin", "/admin").Use(middleware.RequireKind(auth.PrincipalAdmin))

	admins := g.Group("admins", "/admins").Use(middleware.RequireResource(identity.ResourceAdmin))
	admins.GET("", h.Admin.List)
	admins.POST("", h.Admin.Create)
	admins.GET("/:id", h.Admin.GetByID)
	admins.PUT("/:id", h.Admin.Update)
	admins.PUT("/:id/password", h.Admin.ResetPassword)
	admins.DELETE("/:id", h.Admin.Delete)

	users := g.Group("users", "/users")
	users.GET("", middleware.RequireResource(identity.ResourceUser), h.User.List)
	users.GET("/:id", middleware.RequireResource(identity.ResourceUser), h.User.GetByID)
	users.POST("/:id/block", update(identity.ResourceUser), h.User.Block)
	users.POST("/:id/unblock", update(identity.ResourceUser), h.User.Unblock)

	products := g.Group("products", "/products").Use(middleware.RequireResource(identity.ResourceProduct))
	products.GET("", h.Product.List)
	products.POST("", h.Product.Create)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.PATCH("/:id/status", h.Product.UpdateStatus)
	products.PATCH("/:id/stock", h.Product.AdjustStock)
	products.POST("/:id/image-upload-url", update(identity.ResourceProduct), h.Product.CreateImageUploadURL)

	orders := g.Group("orders", "/orders")
	orders.GET("", read(identity.ResourceOrder), h.Order.List)
	orders.POST("", create(identity.ResourceOrder), h.Order.Create)
	orders.GET("/number/:number", read(identity.ResourceOrder), h.Order.GetByOrderNumber)
	orders.GET("/:id", read(identity.ResourceOrder), h.Order.GetByID)
	orders.POST("/:id/confirm", update(identity.ResourceOrder), h.Order.Confirm)
	orders.POST("/:id/cancel", update(identity.ResourceOrder), h.Order.Cancel)

	payments := g.Group("payments", "/payments")
	payments.GET("", read(identity.ResourcePayment), h.Payment.List)
	payments.POST("", create(identity.ResourcePayment), h.Payment.Create)
	payments.GET("/:id", read(identity.ResourcePayment), h.Payment.GetByID)
	payments.POST("/:id/mark-paid", update(identity.ResourcePayment), h.Payment.MarkPaid)
	payments.POST("/:id/mark-failed", update(identity.ResourcePayment), h.Payment.MarkFailed)
	payments.POST("/:id/refund", update(identity.ResourcePayment), h.Payment.Refund)

	shipments := g.Group("shipments", "/shipments")
	shipments.GET("", read(identity.ResourceShipment), h.Shipment.List)
	shipments.POST("", create(identity.ResourceShipment), h.Shipment.Create)
	shipments.GET("/:id", read(identity.ResourceShipment), h.Shipment.GetByID)
	shipments.POST("/:id/ship", update(identity.ResourceShipment), h.Shipment.Ship)
	shipments.POST("/:id/deliver", update(identity.ResourceShipment), h.Shipment.Deliver)

	streams := g.Group("live-streams", "/live-streams")
	streams.GET("", read(identity.ResourceLive), h.LiveStream.List)
	streams.POST("", create(identity.ResourceLive), h.LiveStream.Create)
	streams.GET("/:id", read(identity.ResourceLive), h.LiveStream.GetByID)
	streams.PUT("/:id", update(identity.ResourceLive), h.LiveStream.Update)
	streams.DELETE("/:id", middleware.RequirePermission(identity.ResourceLive, identity.ActionDelete), h.LiveStream.Delete)
	streams.POST("/:id/start", update(identity.ResourceLive), h.LiveStream.Start)
	streams.POST("/:id/end", update(identity.ResourceLive), h.LiveStream.End)
	streams.PUT("/:id/pin", update(identity.ResourceLive), h.LiveStream.Pin)
	streams.GET("/:id/vouchers", read(identity.ResourceLive), h.LiveVoucher.List)
	streams.POST("/:id/vouchers", create(identity.ResourceLive), h.LiveVoucher.Create)
	streams.PUT("/:id/vouchers/:voucherId", update(identity.ResourceLive), h.LiveVoucher.Update)
	streams.POST("/:id/vouchers/:voucherId/deactivate", update(identity.ResourceLive), h.LiveVoucher.Deactivate)
	streams.GET("/:id/orders", read(identity.ResourceLive), h.LiveOrder.List)
	streams.POST("/:id/orders/:orderId/confirm", update(identity.ResourceLive), h.LiveOrder.Confirm)

	wa := g.Group("whatsapp", "/whatsapp").Use(middleware.RequireResource(identity.ResourceWhatsApp))
	wa.GET("/messages", h.WhatsApp.ListMessages)
	wa.POST("/messages", h.WhatsApp.Send)
	wa.GET("/conversations/:phone", h.WhatsApp.Conversation)
	wa.GET("/auto-replies", h.WhatsApp.ListAutoReplies)
	wa.POST("/auto-replies", h.WhatsApp.CreateAutoReply)
	wa.POST("/auto-replies/test", h.WhatsApp.TestAutoReply)
	wa.GET("/auto-replies/:id", h.WhatsApp.GetAutoReply)
	wa.PUT("/auto-replies/:id", h.WhatsApp.UpdateAutoReply)
	wa.DELETE("/auto-replies/:id", h.WhatsApp.DeleteAutoReply)

	g.GET("/dashboard", read(identity.ResourceDashboard), h.Dashboard.Summary)
	return g
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo)
	return g
}

func read(resource string) gin.HandlerFunc {
	return middleware.RequirePermission(resource, identity.ActionRead)
}

func create(resource string) gin.HandlerFunc {
	return middleware.RequirePermission(resource, identity.ActionCreate)
}

func update(resource string) gin.HandlerFunc {
	return middleware.RequirePermission(resource, identity.ActionUpdate)
}

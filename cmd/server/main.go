package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/livecommerce/backend/internal/application/catalog"
	"github.com/livecommerce/backend/internal/application/dashboard"
	identityapp "github.com/livecommerce/backend/internal/application/identity"
	liveapp "github.com/livecommerce/backend/internal/application/live"
	messagingapp "github.com/livecommerce/backend/internal/application/messaging"
	tradeapp "github.com/livecommerce/backend/internal/application/trade"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
	"github.com/livecommerce/backend/internal/infrastructure/cache"
	"github.com/livecommerce/backend/internal/infrastructure/config"
	"github.com/livecommerce/backend/internal/infrastructure/event"
	"github.com/livecommerce/backend/internal/infrastructure/idgen"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"github.com/livecommerce/backend/internal/infrastructure/persistence"
	"github.com/livecommerce/backend/internal/infrastructure/scheduler"
	"github.com/livecommerce/backend/internal/infrastructure/storage"
	"github.com/livecommerce/backend/internal/infrastructure/telemetry"
	"github.com/livecommerce/backend/internal/infrastructure/whatsapp"
	"github.com/livecommerce/backend/internal/interfaces/http/dto"
	"github.com/livecommerce/backend/internal/interfaces/http/handler"
	"github.com/livecommerce/backend/internal/interfaces/http/middleware"
	"github.com/livecommerce/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/livecommerce/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Live Commerce Admin API
//	@version		1.0
//	@description	Back office and storefront API for live selling: products, live streams, orders, payments, shipments and WhatsApp messaging.

//	@contact.name	API Support
//	@contact.url	https://github.com/livecommerce/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	flushSentry, err := logger.InitSentry(logger.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.App.Env,
		Release:          version,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
	})
	if err != nil {
		panic("Failed to initialize Sentry: " + err.Error())
	}
	defer flushSentry()

	log, err := logger.New(&logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		TimeFormat:   "2006-01-02T15:04:05.000Z07:00",
		MaxSizeMB:    cfg.Log.MaxSizeMB,
		MaxBackups:   cfg.Log.MaxBackups,
		MaxAgeDays:   cfg.Log.MaxAgeDays,
		Compress:     cfg.Log.Compress,
		ReportErrors: cfg.Sentry.DSN != "",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting live commerce backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if tracerProvider.Enabled() && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracing(cfg.Database.SlowThreshold, !cfg.App.IsProduction(), log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))

	// Repositories
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	streamRepo := persistence.NewGormLiveStreamRepository(db.DB)
	commentRepo := persistence.NewGormLiveCommentRepository(db.DB)
	voucherRepo := persistence.NewGormLiveVoucherRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	autoReplyRepo := persistence.NewGormAutoReplyRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus; integration events go to Kafka when enabled
	eventBus := event.NewInMemoryEventBus(log)
	var kafkaForwarder *event.KafkaForwarder
	if cfg.Kafka.Enabled {
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		kafkaForwarder = event.NewKafkaForwarder(event.NewKafkaWriter(cfg.Kafka), serializer, log, cfg.Kafka.Buffer)
		kafkaForwarder.Start(ctx)
		eventBus.Subscribe(kafkaForwarder)
		log.Info("Kafka forwarding enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	// Infrastructure adapters
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	jwtService := auth.NewJWTService(cfg.JWT)
	roomTokens := auth.NewRoomTokenService(cfg.Live)
	viewerCounter := cache.NewRedisViewerCounter(redisClient)
	redisLocker := cache.NewRedsyncLocker(redisClient, cfg.Live.VoucherLockTTL)
	orderNumbers, err := idgen.NewSnowflakeGenerator(cfg.App.NodeID)
	if err != nil {
		log.Fatal("Failed to initialize order number generator", zap.Error(err))
	}
	sender := whatsapp.NewLogSender(cfg.WhatsApp.SenderName, log)

	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("Object storage enabled", zap.String("bucket", s3Storage.Bucket()))
	}

	// Application services
	messageService := messagingapp.NewMessageService(messageRepo, autoReplyRepo, sender, eventBus)
	autoReplyService := messagingapp.NewAutoReplyService(autoReplyRepo)

	authConfig := identityapp.DefaultAuthServiceConfig()
	authConfig.OTPTTL = cfg.OTP.TTL
	authConfig.OTPCooldown = cfg.OTP.ResendCooldown
	authConfig.OTPMaxAttempts = cfg.OTP.MaxAttempts
	if cfg.WhatsApp.OTPTemplate != "" {
		authConfig.OTPTemplate = cfg.WhatsApp.OTPTemplate
	}
	authService := identityapp.NewAuthService(
		adminRepo, userRepo, cache.NewRedisOTPStore(redisClient),
		jwtService, blacklist, messageService, authConfig, log,
	)
	adminService := identityapp.NewAdminService(adminRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)
	userService := identityapp.NewUserService(userRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)

	productService := catalogapp.NewProductService(productRepo, imageStorage, eventBus)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, txScope, orderNumbers, eventBus)
	paymentService := tradeapp.NewPaymentService(paymentRepo, orderRepo, txScope, eventBus)
	shipmentService := tradeapp.NewShipmentService(shipmentRepo, orderRepo, txScope, eventBus)

	streamService := liveapp.NewStreamService(streamRepo, productRepo, viewerCounter, roomTokens, eventBus)
	commentService := liveapp.NewCommentService(streamRepo, commentRepo, productRepo, userRepo, orderService, eventBus)
	voucherService := liveapp.NewVoucherService(voucherRepo, streamRepo)
	liveOrderService := liveapp.NewLiveOrderService(streamRepo, orderService, redisLocker)
	dashboardService := dashboard.NewService(orderRepo, productRepo, streamRepo, cfg.Live.LowStockThreshold)

	if cfg.WhatsApp.NotifyOrders {
		notifications := event.NewIdempotentHandler(
			tradeapp.NewOrderNotificationHandler(messageService, cfg.WhatsApp.OrderTemplate, log),
			cache.NewRedisProcessedStore(redisClient),
			log,
		)
		eventBus.Subscribe(notifications)
		log.Info("Order notifications enabled", zap.Strings("events", notifications.EventTypes()))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	viewerSync := scheduler.NewViewerSyncScheduler(streamService, redisLocker, log, scheduler.ViewerSyncSchedulerConfig{
		Interval: cfg.Live.ViewerSyncInterval,
	})
	if err := viewerSync.Start(ctx); err != nil {
		log.Fatal("Failed to start viewer sync scheduler", zap.Error(err))
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.HealthCheck{
		"database": db.Ping,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Admin:       handler.NewAdminHandler(adminService),
		User:        handler.NewUserHandler(userService),
		Product:     handler.NewProductHandler(productService),
		Order:       handler.NewOrderHandler(orderService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Shipment:    handler.NewShipmentHandler(shipmentService),
		LiveStream:  handler.NewLiveStreamHandler(streamService),
		LiveComment: handler.NewLiveCommentHandler(commentService),
		LiveVoucher: handler.NewLiveVoucherHandler(voucherService),
		LiveOrder:   handler.NewLiveOrderHandler(liveOrderService),
		WhatsApp:    handler.NewWhatsAppHandler(messageService, autoReplyService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		System:      systemHandler,
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, recovery, tracing, request log, security
	// headers, CORS, gzip, body limit, rate limit. JWT and permission checks
	// are attached to the API routes below.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.Enabled(),
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Compression(cfg.HTTP.GzipEnabled))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled}),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	skip, skipPrefixes, optionalPrefixes := router.AuthPaths(r.BasePath())
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:           jwtService,
		TokenBlacklist:       blacklist,
		SkipPaths:            skip,
		SkipPathPrefixes:     skipPrefixes,
		OptionalPathPrefixes: optionalPrefixes,
		Logger:               log,
	}))
	r.Use(middleware.SpanAttributes())

	// Rate limiting runs after authentication so signed-in clients are
	// counted per principal rather than per IP
	if cfg.HTTP.RateLimitEnabled {
		var limiter middleware.Limiter
		if cfg.HTTP.RateLimitStore == "memory" {
			limiter = middleware.NewMemoryRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		} else {
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		}
		r.Use(middleware.RateLimit(limiter, log))
		log.Info("Rate limiting enabled",
			zap.String("store", cfg.HTTP.RateLimitStore),
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	for _, group := range router.DomainGroups(handlers, cfg.WhatsApp.WebhookToken) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := viewerSync.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping viewer sync scheduler", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if kafkaForwarder != nil {
		if err := kafkaForwarder.Close(shutdownCtx); err != nil {
			log.Error("Error flushing Kafka forwarder", zap.Error(err))
		}
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

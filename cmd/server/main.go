package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	autoruleapp "github.com/finbooks/backend/internal/application/autorule"
	billingapp "github.com/finbooks/backend/internal/application/billing"
	budgetapp "github.com/finbooks/backend/internal/application/budget"
	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	tradeapp "github.com/finbooks/backend/internal/application/trade"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/auth"
	"github.com/finbooks/backend/internal/infrastructure/config"
	"github.com/finbooks/backend/internal/infrastructure/event"
	"github.com/finbooks/backend/internal/infrastructure/logger"
	"github.com/finbooks/backend/internal/infrastructure/persistence"
	"github.com/finbooks/backend/internal/interfaces/http/handler"
	"github.com/finbooks/backend/internal/interfaces/http/middleware"
	"github.com/finbooks/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FinBooks Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	analyticRepo := persistence.NewGormAnalyticAccountRepository(db.DB)
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	actualsReader := persistence.NewGormActualsReader(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Outbox publisher writes events in the caller's transaction.
	// The outbox processor later delivers them to the in-process bus.
	outboxPublisher := event.NewOutboxPublisher(db.DB, eventSerializer)

	clock := shared.SystemClock{}

	// Initialize application services
	accountService := ledgerapp.NewAccountService(accountRepo)
	analyticService := ledgerapp.NewAnalyticAccountService(analyticRepo, outboxPublisher, log)
	journalService := ledgerapp.NewJournalService(journalRepo, accountRepo, clock, outboxPublisher, log)
	budgetService := budgetapp.NewBudgetService(budgetRepo, actualsReader, outboxPublisher, log)
	ruleService := autoruleapp.NewRuleService(ruleRepo, analyticRepo, outboxPublisher, log)
	documentService := billingapp.NewDocumentService(
		documentRepo,
		accountRepo,
		budgetService,
		ruleService,
		billingapp.LedgerAccountCodes{
			Receivable: cfg.Ledger.ReceivableAccountCode,
			Payable:    cfg.Ledger.PayableAccountCode,
			Revenue:    cfg.Ledger.RevenueAccountCode,
			Expense:    cfg.Ledger.ExpenseAccountCode,
		},
		clock,
		outboxPublisher,
		log,
	)
	paymentService := billingapp.NewPaymentService(paymentRepo, documentRepo, outboxPublisher, log)
	orderService := tradeapp.NewOrderService(orderRepo, budgetService, ruleService, clock, outboxPublisher, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers stored events to the bus
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	analyticHandler := handler.NewAnalyticAccountHandler(analyticService)
	journalHandler := handler.NewJournalHandler(journalService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	ruleHandler := handler.NewRuleHandler(ruleService)
	documentHandler := handler.NewDocumentHandler(documentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	orderHandler := handler.NewOrderHandler(orderService)
	systemHandler := handler.NewSystemHandler(outboxRepo)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDKey},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Ledger domain (accounts, analytic accounts, journal entries)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/accounts", accountHandler.Create)
	ledgerRoutes.GET("/accounts", accountHandler.List)
	ledgerRoutes.GET("/accounts/:id", accountHandler.GetByID)
	ledgerRoutes.PUT("/accounts/:id", accountHandler.Update)

	ledgerRoutes.POST("/analytic-accounts", analyticHandler.Create)
	ledgerRoutes.GET("/analytic-accounts", analyticHandler.List)
	ledgerRoutes.GET("/analytic-accounts/:id", analyticHandler.GetByID)
	ledgerRoutes.PUT("/analytic-accounts/:id", analyticHandler.Update)
	ledgerRoutes.POST("/analytic-accounts/:id/confirm", analyticHandler.Confirm)
	ledgerRoutes.POST("/analytic-accounts/:id/archive", analyticHandler.Archive)

	ledgerRoutes.POST("/journal-entries", journalHandler.Create)
	ledgerRoutes.GET("/journal-entries", journalHandler.List)
	ledgerRoutes.GET("/journal-entries/:id", journalHandler.GetByID)
	ledgerRoutes.POST("/journal-entries/:id/post", journalHandler.Post)

	// Budget domain
	budgetRoutes := router.NewDomainGroup("budget", "/budgets")
	budgetRoutes.POST("", budgetHandler.Create)
	budgetRoutes.GET("", budgetHandler.List)
	budgetRoutes.GET("/availability", budgetHandler.CheckAvailability)
	budgetRoutes.GET("/:id", budgetHandler.GetByID)
	budgetRoutes.PUT("/:id", budgetHandler.Update)
	budgetRoutes.POST("/:id/approve", budgetHandler.Approve)
	budgetRoutes.POST("/:id/archive", budgetHandler.Archive)
	budgetRoutes.POST("/:id/revisions", budgetHandler.CreateRevision)

	// Auto-analytical rule domain
	ruleRoutes := router.NewDomainGroup("autorule", "/rules")
	ruleRoutes.POST("", ruleHandler.Create)
	ruleRoutes.GET("", ruleHandler.List)
	ruleRoutes.POST("/select", ruleHandler.Select)
	ruleRoutes.GET("/:id", ruleHandler.GetByID)
	ruleRoutes.PUT("/:id", ruleHandler.Update)
	ruleRoutes.POST("/:id/confirm", ruleHandler.Confirm)
	ruleRoutes.POST("/:id/archive", ruleHandler.Archive)
	ruleRoutes.DELETE("/:id", ruleHandler.Delete)

	// Billing domain (invoices, bills, payments)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/documents", documentHandler.Create)
	billingRoutes.GET("/documents", documentHandler.List)
	billingRoutes.GET("/documents/:id", documentHandler.GetByID)
	billingRoutes.PUT("/documents/:id", documentHandler.Update)
	billingRoutes.DELETE("/documents/:id", documentHandler.Delete)
	billingRoutes.POST("/documents/:id/post", documentHandler.Post)
	billingRoutes.POST("/documents/:id/payments", paymentHandler.Register)
	billingRoutes.GET("/payments", paymentHandler.List)
	billingRoutes.GET("/payments/:id", paymentHandler.GetByID)

	// Trade domain (purchase and sales orders)
	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/orders", orderHandler.Create)
	tradeRoutes.GET("/orders", orderHandler.List)
	tradeRoutes.GET("/orders/:id", orderHandler.GetByID)
	tradeRoutes.PUT("/orders/:id", orderHandler.Update)
	tradeRoutes.DELETE("/orders/:id", orderHandler.Delete)
	tradeRoutes.POST("/orders/:id/confirm", orderHandler.Confirm)
	tradeRoutes.POST("/orders/:id/cancel", orderHandler.Cancel)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/status", systemHandler.GetOutboxStatus)

	r.Register(ledgerRoutes, budgetRoutes, ruleRoutes, billingRoutes, tradeRoutes, systemRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

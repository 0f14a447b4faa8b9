package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/facturo/backend/internal/application/billing"
	costingapp "github.com/facturo/backend/internal/application/costing"
	identityapp "github.com/facturo/backend/internal/application/identity"
	partnerapp "github.com/facturo/backend/internal/application/partner"
	payrollapp "github.com/facturo/backend/internal/application/payroll"
	reportapp "github.com/facturo/backend/internal/application/report"
	"github.com/facturo/backend/internal/infrastructure/auth"
	"github.com/facturo/backend/internal/infrastructure/cache"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/infrastructure/payment"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	"github.com/facturo/backend/internal/infrastructure/scheduler"
	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/facturo/backend/internal/interfaces/http/handler"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/facturo/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting invoicing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed gorm logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Tracing (no-op unless enabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Error("Failed to register database tracing", zap.Error(err))
	}

	// Token blacklist: Redis when reachable, in-memory otherwise
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	costSheetRepo := persistence.NewGormCostSheetRepository(db.DB)
	costTemplateRepo := persistence.NewGormCostTemplateRepository(db.DB)
	priceCalculationRepo := persistence.NewGormPriceCalculationRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	payrollRecordRepo := persistence.NewGormPayrollRecordRepository(db.DB)

	// Payment gateway: Stripe when configured, otherwise a stub that
	// rejects checkout so the rest of the API keeps working
	var gateway identityapp.SubscriptionGateway
	if cfg.Stripe.SecretKey != "" {
		stripeGateway, err := payment.NewStripeGateway(cfg.Stripe, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
		}
		gateway = stripeGateway
		log.Info("Stripe gateway configured")
	} else {
		log.Warn("No Stripe credentials configured, subscription checkout disabled")
		gateway = payment.NewDisabledGateway(log)
	}

	// Application services
	authService := identityapp.NewAuthService(orgRepo, userRepo, subscriptionRepo, jwtService, blacklist, cfg.Billing, log)
	organizationService := identityapp.NewOrganizationService(orgRepo)
	subscriptionService := identityapp.NewSubscriptionService(subscriptionRepo, orgRepo, gateway, cfg.Billing, log)
	customerService := partnerapp.NewCustomerService(customerRepo, invoiceRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, orgRepo)
	quotationService := billingapp.NewQuotationService(quotationRepo, invoiceRepo, customerRepo, orgRepo, log)
	maintenanceService := billingapp.NewMaintenanceService(invoiceRepo, quotationRepo, log)
	costSheetService := costingapp.NewCostSheetService(costSheetRepo, costTemplateRepo, invoiceRepo)
	costTemplateService := costingapp.NewCostTemplateService(costTemplateRepo)
	priceCalculationService := costingapp.NewPriceCalculationService(priceCalculationRepo)
	employeeService := payrollapp.NewEmployeeService(employeeRepo, payrollRecordRepo)
	payrollService := payrollapp.NewPayrollService(payrollRecordRepo, employeeRepo)
	reportService := reportapp.NewReportService(invoiceRepo, costSheetRepo)

	webhookProcessor := payment.NewStripeWebhookProcessor(cfg.Stripe, subscriptionService, log)

	// Nightly maintenance (quotation expiry, overdue detection)
	if cfg.Scheduler.Enabled {
		maintenanceScheduler, err := scheduler.NewMaintenanceScheduler(cfg.Scheduler, maintenanceService, log)
		if err != nil {
			log.Fatal("Failed to initialize maintenance scheduler", zap.Error(err))
		}
		maintenanceScheduler.Start()
		defer maintenanceScheduler.Stop()
		log.Info("Maintenance scheduler started",
			zap.String("schedule", cfg.Scheduler.OverdueCronSchedule))
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	organizationHandler := handler.NewOrganizationHandler(organizationService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	costSheetHandler := handler.NewCostSheetHandler(costSheetService)
	costTemplateHandler := handler.NewCostTemplateHandler(costTemplateService)
	priceCalculationHandler := handler.NewPriceCalculationHandler(priceCalculationService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db)
	webhookHandler := handler.NewStripeWebhookHandler(webhookProcessor)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID, recovery, logging, security headers,
	// CORS, body limit, then rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiterFactory := cache.NewRateLimiterFactory(cfg.Redis, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow,
			cache.WithLogger(log))
		rateLimiter, err := limiterFactory.CreateLimiter()
		if err != nil {
			log.Fatal("Failed to initialize rate limiter", zap.Error(err))
		}
		defer func() {
			if err := rateLimiter.Close(); err != nil {
				log.Error("Error closing rate limiter", zap.Error(err))
			}
		}()
		engine.Use(middleware.RateLimit(rateLimiter, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Probes live outside the versioned API
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Stripe calls this endpoint directly; signature verification replaces JWT auth
	engine.POST("/api/v1/webhooks/stripe", webhookHandler.HandleStripeWebhook)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/webhooks/stripe",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	authRoutes := router.NewResourceGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.POST("/change-password", authHandler.ChangePassword)

	userRoutes := router.NewResourceGroup("users", "/users")
	userRoutes.POST("/:id/deactivate", authHandler.DeactivateUser)

	organizationRoutes := router.NewResourceGroup("organization", "/organization")
	organizationRoutes.GET("", organizationHandler.Get)
	organizationRoutes.PUT("/profile", organizationHandler.UpdateProfile)
	organizationRoutes.PUT("/invoice-settings", organizationHandler.UpdateInvoiceSettings)
	organizationRoutes.POST("/deactivate", organizationHandler.Deactivate)

	subscriptionRoutes := router.NewResourceGroup("subscription", "/subscription")
	subscriptionRoutes.GET("", subscriptionHandler.GetCurrent)
	subscriptionRoutes.POST("/checkout", subscriptionHandler.StartCheckout)
	subscriptionRoutes.POST("/change-plan", subscriptionHandler.ChangePlan)
	subscriptionRoutes.POST("/cancel", subscriptionHandler.Cancel)

	customerRoutes := router.NewResourceGroup("customers", "/customers")
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.GetByID)
	customerRoutes.PUT("/:id", customerHandler.Update)
	customerRoutes.DELETE("/:id", customerHandler.Delete)
	customerRoutes.POST("/:id/archive", customerHandler.Archive)
	customerRoutes.POST("/:id/restore", customerHandler.Restore)

	invoiceRoutes := router.NewResourceGroup("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.PUT("/:id", invoiceHandler.Update)
	invoiceRoutes.PATCH("/:id/due-date", invoiceHandler.UpdateDueDate)
	invoiceRoutes.DELETE("/:id", invoiceHandler.Delete)
	invoiceRoutes.POST("/:id/issue", invoiceHandler.Issue)
	invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
	invoiceRoutes.POST("/:id/cancel", invoiceHandler.Cancel)

	// The cost sheet is addressed through its invoice
	costSheetRoutes := invoiceRoutes.Group("cost-sheet", "/:id/cost-sheet")
	costSheetRoutes.GET("", costSheetHandler.Get)
	costSheetRoutes.POST("/items", costSheetHandler.AddItem)
	costSheetRoutes.PUT("/items/:itemId", costSheetHandler.EditItem)
	costSheetRoutes.DELETE("/items/:itemId", costSheetHandler.RemoveItem)
	costSheetRoutes.POST("/items/:itemId/revert", costSheetHandler.RevertItem)
	costSheetRoutes.POST("/apply-template", costSheetHandler.ApplyTemplate)
	costSheetRoutes.POST("/commit", costSheetHandler.Commit)
	costSheetRoutes.POST("/discard", costSheetHandler.Discard)

	quotationRoutes := router.NewResourceGroup("quotations", "/quotations")
	quotationRoutes.POST("", quotationHandler.Create)
	quotationRoutes.GET("", quotationHandler.List)
	quotationRoutes.GET("/:id", quotationHandler.GetByID)
	quotationRoutes.PUT("/:id", quotationHandler.Update)
	quotationRoutes.DELETE("/:id", quotationHandler.Delete)
	quotationRoutes.POST("/:id/send", quotationHandler.Send)
	quotationRoutes.POST("/:id/accept", quotationHandler.Accept)
	quotationRoutes.POST("/:id/decline", quotationHandler.Decline)
	quotationRoutes.POST("/:id/convert", quotationHandler.ConvertToInvoice)

	costTemplateRoutes := router.NewResourceGroup("cost-templates", "/cost-templates")
	costTemplateRoutes.POST("", costTemplateHandler.Create)
	costTemplateRoutes.GET("", costTemplateHandler.List)
	costTemplateRoutes.GET("/:id", costTemplateHandler.GetByID)
	costTemplateRoutes.PUT("/:id", costTemplateHandler.Update)
	costTemplateRoutes.DELETE("/:id", costTemplateHandler.Delete)

	priceCalculationRoutes := router.NewResourceGroup("price-calculations", "/price-calculations")
	priceCalculationRoutes.POST("", priceCalculationHandler.Create)
	priceCalculationRoutes.POST("/preview", priceCalculationHandler.Preview)
	priceCalculationRoutes.GET("", priceCalculationHandler.List)
	priceCalculationRoutes.GET("/:id", priceCalculationHandler.GetByID)
	priceCalculationRoutes.PUT("/:id", priceCalculationHandler.Update)
	priceCalculationRoutes.DELETE("/:id", priceCalculationHandler.Delete)

	employeeRoutes := router.NewResourceGroup("employees", "/employees")
	employeeRoutes.POST("", employeeHandler.Create)
	employeeRoutes.GET("", employeeHandler.List)
	employeeRoutes.GET("/:id", employeeHandler.GetByID)
	employeeRoutes.PUT("/:id", employeeHandler.Update)
	employeeRoutes.DELETE("/:id", employeeHandler.Delete)
	employeeRoutes.POST("/:id/terminate", employeeHandler.Terminate)

	payrollRoutes := router.NewResourceGroup("payroll", "/payroll")
	payrollRoutes.POST("", payrollHandler.Create)
	payrollRoutes.POST("/generate", payrollHandler.GenerateForPeriod)
	payrollRoutes.GET("", payrollHandler.List)
	payrollRoutes.GET("/:id", payrollHandler.GetByID)
	payrollRoutes.PUT("/:id", payrollHandler.Update)
	payrollRoutes.DELETE("/:id", payrollHandler.Delete)
	payrollRoutes.POST("/:id/approve", payrollHandler.Approve)
	payrollRoutes.POST("/:id/mark-paid", payrollHandler.MarkPaid)

	reportRoutes := router.NewResourceGroup("reports", "/reports")
	reportRoutes.GET("/revenue", reportHandler.RevenueSummary)
	reportRoutes.GET("/margin", reportHandler.MarginReport)
	reportRoutes.GET("/aging", reportHandler.AgingReport)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(organizationRoutes).
		Register(subscriptionRoutes).
		Register(customerRoutes).
		Register(invoiceRoutes).
		Register(quotationRoutes).
		Register(costTemplateRoutes).
		Register(priceCalculationRoutes).
		Register(employeeRoutes).
		Register(payrollRoutes).
		Register(reportRoutes)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

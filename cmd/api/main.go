package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/config"
	"github.com/sangkips/billing-api/internal/infrastructure/database"
	"github.com/sangkips/billing-api/internal/infrastructure/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/internal/presentation/http/routes"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Amounts in request and response bodies are plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to database
	db, err := database.Open(&cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, appLogger); err != nil {
		appLogger.Warn("failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	store := repository.NewStore(db)
	repos := store.Repos()

	if removed, err := repos.Idempotency.DeleteExpired(context.Background(), time.Now()); err != nil {
		appLogger.Warn("failed to purge idempotency keys", zap.Error(err))
	} else if removed > 0 {
		appLogger.Info("purged expired idempotency keys", zap.Int64("count", removed))
	}

	// Initialize services
	ledger := service.NewLedgerMirror(appLogger)
	authService := service.NewAuthService(repos.Accounts, jwtManager)
	paymentService := service.NewPaymentService(store, ledger, appLogger, cfg.Payments.RecomputeStatus)
	transactionService := service.NewTransactionService(store, ledger, appLogger)
	staffPaymentService := service.NewStaffPaymentService(store, ledger, appLogger)
	templateService := service.NewTemplateService(store, transactionService, staffPaymentService, appLogger)
	reportService := service.NewReportService(store)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Transaction:  handler.NewTransactionHandler(transactionService),
		StaffPayment: handler.NewStaffPaymentHandler(staffPaymentService),
		Template:     handler.NewTemplateHandler(templateService),
		Ledger:       handler.NewLedgerHandler(reportService),
	}

	rateLimiter := middleware.NewAccountRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          appLogger,
		IdempotencyRepo: repos.Idempotency,
		RateLimiter:     rateLimiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	appLogger.Info("starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if err := router.Run(":" + port); err != nil {
		appLogger.Fatal("failed to start server", zap.Error(err))
	}
}

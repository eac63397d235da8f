package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/config"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Payment      *handler.PaymentHandler
	Transaction  *handler.TransactionHandler
	StaffPayment *handler.StaffPaymentHandler
	Template     *handler.TemplateHandler
	Ledger       *handler.LedgerHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.AccountRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes, rate limited per account
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/profile", h.Auth.Profile)

	// Payments
	protected.POST("/payments", h.Payment.Handle)

	registerTransactionRoutes(protected, h, deps)
	registerStaffPaymentRoutes(protected, h)
	registerTemplateRoutes(protected, h)
	registerLedgerRoutes(protected, h)
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := protected.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		// Creation replays the stored response for a repeated Idempotency-Key
		transactions.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Transaction.Create)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.PUT("/:id", h.Transaction.Update)
		transactions.DELETE("/:id", h.Transaction.Delete)
	}
}

func registerStaffPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	staffPayments := protected.Group("/staff-payments")
	{
		staffPayments.GET("", h.StaffPayment.List)
		staffPayments.POST("", h.StaffPayment.Create)
		staffPayments.DELETE("/:id", h.StaffPayment.Delete)
	}
}

func registerTemplateRoutes(protected *gin.RouterGroup, h *Handlers) {
	templates := protected.Group("/templates")
	{
		transactions := templates.Group("/transactions")
		transactions.GET("", h.Template.ListTransactionTemplates)
		transactions.POST("", h.Template.CreateTransactionTemplate)
		transactions.GET("/:id", h.Template.GetTransactionTemplate)
		transactions.PUT("/:id", h.Template.UpdateTransactionTemplate)
		transactions.DELETE("/:id", h.Template.DeleteTransactionTemplate)
		transactions.POST("/:id/execute", h.Template.ExecuteTransactionTemplate)

		staffPayments := templates.Group("/staff-payments")
		staffPayments.GET("", h.Template.ListStaffPaymentTemplates)
		staffPayments.POST("", h.Template.CreateStaffPaymentTemplate)
		staffPayments.GET("/:id", h.Template.GetStaffPaymentTemplate)
		staffPayments.PUT("/:id", h.Template.UpdateStaffPaymentTemplate)
		staffPayments.DELETE("/:id", h.Template.DeleteStaffPaymentTemplate)
		staffPayments.POST("/:id/execute", h.Template.ExecuteStaffPaymentTemplate)
	}
}

func registerLedgerRoutes(protected *gin.RouterGroup, h *Handlers) {
	ledger := protected.Group("/ledger")
	{
		ledger.GET("", h.Ledger.Entries)
		ledger.GET("/summary/monthly", h.Ledger.MonthlySummary)
		ledger.GET("/summary/yearly", h.Ledger.YearlySummary)
		ledger.GET("/summary/current-month", h.Ledger.CurrentMonth)
		ledger.GET("/clients", h.Ledger.ClientTotals)
		ledger.GET("/export", h.Ledger.Export)
	}
}

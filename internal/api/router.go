package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/api/handlers"
	"github.com/necstaz/shopapi/internal/api/middleware"
	"github.com/necstaz/shopapi/internal/config"
	"github.com/necstaz/shopapi/internal/repository"
	"github.com/necstaz/shopapi/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	checkout service.CheckoutService,
	reconcile service.ReconcileService,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Storefront payment routes (public: the webhook is provider-initiated
	// and checkout is the anonymous storefront)
	payment := router.Group("/api/payment")
	{
		payment.POST("/initiate", handlers.HandleCheckout(checkout, logger))
		payment.POST("/ipn", handlers.HandleIPN(reconcile, logger))
		payment.GET("/ipn", handlers.HandleIPNStatus())
	}

	// Back-office routes
	admin := router.Group("/v1/admin")
	admin.Use(middleware.AdminAuth(cfg, logger))
	{
		admin.GET("/orders", handlers.HandleListOrders(repos, logger))
		admin.GET("/orders/:orderNumber", handlers.HandleGetOrder(repos, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}

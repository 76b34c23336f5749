package routes

import (
	"time"

	"armory/internal/container"
	"armory/internal/middleware"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register attaches every route group. The login route is the only public
// API endpoint; everything else under /api requires a valid token.
func Register(router *gin.Engine, c *container.Container, log *zap.Logger) {
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	c.LoginHandler.RegisterRoutes(router)

	api := router.Group("/api")
	api.Use(security.JWTMiddleware())

	c.AssetHandler.RegisterRoutes(api)
	c.BaseHandler.RegisterRoutes(api)
	c.UserHandler.RegisterRoutes(api)
	c.PurchaseHandler.RegisterRoutes(api)
	c.TransferHandler.RegisterRoutes(api)
	c.AssignmentHandler.RegisterRoutes(api)
	c.ExpenditureHandler.RegisterRoutes(api)
	c.StockHandler.RegisterRoutes(api)
	c.MovementHandler.RegisterRoutes(api)
	c.SummaryHandler.RegisterRoutes(api)

	registerUtilityRoutes(router)
}

func registerUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckHandler())
	router.GET("/metrics", middleware.MetricsHandler())
}

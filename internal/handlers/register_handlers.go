package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerCurrencyRoutes(v1, services.Currency)
	registerExchangeRateRoutes(v1, services.ExchangeRate, services.Updater, services.Resolver)
	registerResolverRoutes(v1, services.Resolver, services.Currency)
}

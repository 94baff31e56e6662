package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jipsalddae/backend/app/controllers"
	"github.com/jipsalddae/backend/internal/pkg/middleware"
)

func (h ApiRouter) registerAdminRoutes(api fiber.Router) {
	adminGroup := api.Group("/admin", middleware.AdminBasicAuth())

	// Reference data (policies, income standards)
	adminGroup.Post("/reference/reload", controllers.HandleAdminReloadReference)
	adminGroup.Get("/reference/stats", controllers.HandleAdminReferenceStats)

	// Usage counters
	adminGroup.Get("/stats/policies", controllers.HandleAdminPolicyStats)

	// Trade API cache
	adminGroup.Get("/cache/trades", controllers.HandleAdminTradeCache)
	adminGroup.Delete("/cache/trades", controllers.HandleAdminClearTradeCache)
}

package routes

import (
	"kassa_backend/internal/config"
	"kassa_backend/internal/handlers"
	"kassa_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	cfg *config.Config,
	appHandlers *handlers.AppHandlers,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter.Group(""))

	// Уведомления шлюза и возврат покупателя
	kassa := ginRouter.Group(cfg.Kassa.LocalURL)
	appHandlers.KassaHandler.RegisterRoutes(kassa)
	logger.Info("Kassa routes registered", "prefix", cfg.Kassa.LocalURL)

	if appHandlers.PaymentHandler == nil {
		logger.Warn("auth.api_secret is not set, host JSON API disabled")
		return
	}
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.PaymentHandler.RegisterRoutes(api)
	}
}

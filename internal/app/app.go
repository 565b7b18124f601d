package app

import (
	"fmt"

	"kassa_backend/database"
	"kassa_backend/internal/config"
	"kassa_backend/internal/email"
	"kassa_backend/internal/handlers"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/middleware"
	"kassa_backend/internal/orders"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/routes"
	"kassa_backend/internal/services"
	"kassa_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/zoobzio/clockz"
)

const emailQueueSize = 256

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	store, eventRepo, err := initializeStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	ginRouter := SetupRouter(cfg, store, eventRepo)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// initializeStorage выбирает хранилище платежей по database.driver.
// memory - для локального запуска без БД, данные не переживают рестарт.
func initializeStorage(cfg *config.Config) (repositories.PaymentStore, repositories.PaymentEventRepository, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory payment store")
		return repositories.NewMemoryPaymentStore(), repositories.NewMemoryPaymentEventRepository(), nil
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("database unavailable: %w", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		return nil, nil, err
	}
	return repositories.NewPaymentStore(gormDB), repositories.NewPaymentEventRepository(gormDB), nil
}

func SetupRouter(cfg *config.Config, store repositories.PaymentStore, eventRepo repositories.PaymentEventRepository) *gin.Engine {
	customValidator := validator.New(cfg.Kassa.PaymentTypes)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, store, eventRepo, customValidator)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, customValidator)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter()

	// 4. Регистрация маршрутов
	routes.RegisterRoutes(ginRouter, cfg, appHandlers)

	return ginRouter
}

func initializeServices(
	cfg *config.Config,
	store repositories.PaymentStore,
	eventRepo repositories.PaymentEventRepository,
	v *validator.Validator,
) *services.ServiceContainer {
	templates := email.NewTemplateManager()

	var emailService email.Provider
	if cfg.Email.Enabled {
		gomailProvider := email.NewGomailProvider(email.ConfigFrom(cfg), templates)
		if err := gomailProvider.Validate(); err != nil {
			logger.Fatal("Invalid email configuration", "error", err)
		}
		// SMTP не должен задерживать ответ шлюзу
		emailService = email.NewAsyncProvider(gomailProvider, emailQueueSize)
	} else {
		logger.Warn("Email disabled, payer notifications are not sent")
		emailService = email.NewNoopProvider(templates)
	}

	return services.NewServiceContainer(cfg.Kassa, services.Dependencies{
		Store:        store,
		EventRepo:    eventRepo,
		Orders:       orders.NewURLTemplateResolver(cfg.Kassa.OrderURLTemplate, cfg.Kassa.CompleteURLTemplate),
		EmailService: emailService,
		Validator:    v,
		Clock:        clockz.RealClock,
	})
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer, v *validator.Validator) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(v)

	appHandlers := &handlers.AppHandlers{
		KassaHandler:  handlers.NewKassaHandler(baseHandler, cfg.Kassa, services.CallbackService, services.FinishService),
		HealthHandler: handlers.NewHealthHandler(),
	}
	if cfg.Auth.APISecret != "" {
		appHandlers.PaymentHandler = handlers.NewPaymentHandler(baseHandler, cfg.Kassa, cfg.Auth.APISecret, services.PaymentService)
	}
	return appHandlers
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	return router
}

package services

import (
	"kassa_backend/internal/config"
	"kassa_backend/internal/email"
	"kassa_backend/internal/events"
	"kassa_backend/internal/orders"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/validator"

	"github.com/zoobzio/clockz"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	PaymentService  PaymentService
	CallbackService CallbackService
	FinishService   FinishService
	EmailService    email.Provider
	Events          *events.Bus
}

// Dependencies - внешние зависимости сервисов.
type Dependencies struct {
	Store        repositories.PaymentStore
	EventRepo    repositories.PaymentEventRepository
	Orders       orders.Resolver
	EmailService email.Provider
	Validator    *validator.Validator
	Clock        clockz.Clock
}

// NewServiceContainer собирает сервисы и подписывает слушателей событий платежей.
func NewServiceContainer(cfg config.KassaConfig, deps Dependencies) *ServiceContainer {
	bus := events.NewBus()
	if deps.EventRepo != nil {
		bus.Subscribe("audit", NewPaymentAuditListener(deps.EventRepo))
	}
	if deps.EmailService != nil {
		bus.Subscribe("payer_email", NewPayerNotifier(deps.EmailService))
	}

	paymentService := NewPaymentService(deps.Store, bus, deps.Validator, deps.Clock)
	notificationValidator := NewNotificationValidator(cfg, deps.Validator)

	return &ServiceContainer{
		PaymentService:  paymentService,
		CallbackService: NewCallbackService(cfg, deps.Store, paymentService, notificationValidator),
		FinishService:   NewFinishService(deps.Store, paymentService, deps.Orders, deps.Validator),
		EmailService:    deps.EmailService,
		Events:          bus,
	}
}

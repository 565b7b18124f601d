package services

import (
	"context"
	"errors"
	"time"

	"kassa_backend/internal/dto"
	"kassa_backend/internal/events"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/models"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/validator"
	"kassa_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
)

// PaymentService - машина состояний платежа.
//
//	created -> processed -> success
//	   |           |
//	   +-----------+-----> fail
//
// Переходы выполняются внутри транзакции хранилища над заблокированной записью.
// Событие перехода публикуется только после коммита.
type PaymentService interface {
	Create(ctx context.Context, req *dto.CreatePaymentRequest) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)

	// Process: created -> processed
	Process(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) error
	// Complete: processed -> success; fail -> success, если платёж не обрабатывался
	Complete(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) error
	// Fail: любое нетерминальное -> fail
	Fail(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) error
}

type paymentService struct {
	store     repositories.PaymentStore
	bus       *events.Bus
	validator *validator.Validator
	clock     clockz.Clock
}

func NewPaymentService(
	store repositories.PaymentStore,
	bus *events.Bus,
	validator *validator.Validator,
	clock clockz.Clock,
) PaymentService {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &paymentService{
		store:     store,
		bus:       bus,
		validator: validator,
		clock:     clock,
	}
}

func (s *paymentService) Create(ctx context.Context, req *dto.CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Validate(req); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return nil, apperrors.ValidationError(verr.Errors)
		}
		return nil, apperrors.InternalError(err)
	}

	currency := req.OrderCurrency
	if currency == 0 {
		currency = models.CurrencyRUB
	}

	payment := &models.Payment{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		OrderID:       req.OrderID,
		CustomerID:    uuid.NewString(),
		State:         models.PaymentStateCreated,
		PaymentType:   models.PaymentType(req.PaymentType),
		OrderSum:      req.OrderSum.Round(2),
		OrderCurrency: currency,
		CPSEmail:      req.CPSEmail,
		CPSPhone:      req.CPSPhone,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.store.Create(ctx, payment); err != nil {
		if errors.Is(err, repositories.ErrPaymentExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "payment created",
		"order_id", payment.OrderID,
		"customer_id", payment.CustomerID,
		"order_sum", payment.OrderSum.StringFixed(2),
	)
	return payment, nil
}

func (s *paymentService) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	payment, err := s.store.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}
	return payment, nil
}

func (s *paymentService) Process(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) error {
	if payment.State != models.PaymentStateCreated {
		return apperrors.InvalidTransition(string(payment.State), string(models.PaymentStateProcessed))
	}
	return s.transition(ctx, tx, payment, models.PaymentEventProcess, func(p *models.Payment, now time.Time) {
		p.PerformedAt = &now
		p.State = models.PaymentStateProcessed
	})
}

func (s *paymentService) Complete(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) error {
	allowed := payment.State == models.PaymentStateProcessed ||
		(payment.State == models.PaymentStateFail && payment.PerformedAt == nil)
	if !allowed {
		return apperrors.InvalidTransition(string(payment.State), string(models.PaymentStateSuccess))
	}
	return s.transition(ctx, tx, payment, models.PaymentEventSuccess, func(p *models.Payment, now time.Time) {
		p.CompletedAt = &now
		p.State = models.PaymentStateSuccess
	})
}

func (s *paymentService) Fail(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) error {
	if payment.IsCompleted() {
		return apperrors.InvalidTransition(string(payment.State), string(models.PaymentStateFail))
	}
	return s.transition(ctx, tx, payment, models.PaymentEventFail, func(p *models.Payment, now time.Time) {
		p.CompletedAt = &now
		p.State = models.PaymentStateFail
	})
}

// transition применяет изменение к копии, сохраняет её и только тогда обновляет payment.
func (s *paymentService) transition(
	ctx context.Context,
	tx repositories.PaymentTx,
	payment *models.Payment,
	kind models.PaymentEventKind,
	apply func(p *models.Payment, now time.Time),
) error {
	now := s.clock.Now()
	next := payment.Clone()
	apply(next, now)

	if err := tx.Save(ctx, next); err != nil {
		return apperrors.DatabaseError(err)
	}
	from := payment.State
	*payment = *next

	logger.CtxInfo(ctx, "payment state changed",
		"order_id", payment.OrderID,
		"from", string(from),
		"to", string(payment.State),
	)

	event := events.PaymentEvent{Kind: kind, Payment: next.Clone(), OccurredAt: now}
	tx.AfterCommit(func() {
		s.bus.Publish(ctx, event)
	})
	return nil
}

package services

import (
	"context"
	"errors"

	"kassa_backend/internal/dto"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/models"
	"kassa_backend/internal/orders"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/validator"
)

// RootURL - куда отправить покупателя, если заказ не определён.
const RootURL = "/"

// FinishService решает, куда вернуть покупателя после страницы оплаты шлюза.
type FinishService interface {
	Resolve(ctx context.Context, form *dto.FinishForm) string
}

type finishService struct {
	store     repositories.PaymentStore
	payments  PaymentService
	orders    orders.Resolver
	validator *validator.Validator
}

func NewFinishService(
	store repositories.PaymentStore,
	payments PaymentService,
	resolver orders.Resolver,
	v *validator.Validator,
) FinishService {
	return &finishService{
		store:     store,
		payments:  payments,
		orders:    resolver,
		validator: v,
	}
}

// outcome - итог оплаты для редиректа; determined=false - итог неизвестен.
type outcome struct {
	determined bool
	success    bool
}

func (s *finishService) Resolve(ctx context.Context, form *dto.FinishForm) string {
	ctx = logger.WithOrderID(ctx, form.OrderNumber)

	formErr := s.validator.Validate(form)
	var verr *validator.ValidationError
	if errors.As(formErr, &verr) && verr.Has("cr_order_number") {
		logger.CtxInfo(ctx, "finish: order number is not usable", "errors", verr.Errors)
		return RootURL
	}

	var (
		payment *models.Payment
		result  outcome
	)
	err := s.store.InTx(ctx, func(tx repositories.PaymentTx) error {
		p, err := tx.FindForUpdate(ctx, form.OrderNumber)
		if err != nil {
			return err
		}
		payment = p

		if formErr != nil {
			return nil
		}
		result, err = s.decide(ctx, tx, p, form.Action == dto.FinishActionConfirm)
		return err
	})
	if err != nil {
		if !errors.Is(err, repositories.ErrPaymentNotFound) {
			logger.CtxWithError(ctx, "finish: failed to resolve payment", err)
		}
		// платёж найден, но переход не удался - итог считаем неизвестным
		if payment == nil {
			return RootURL
		}
		result = outcome{}
	}

	order, err := s.orders.GetByOrderID(ctx, payment.OrderID)
	if err != nil {
		logger.CtxWithError(ctx, "finish: order lookup failed", err)
		return RootURL
	}
	if order == nil {
		return RootURL
	}

	if formErr != nil || !result.determined {
		return order.AbsoluteURL()
	}
	return order.CompleteURL(result.success)
}

// decide определяет итог по состоянию платежа. Заявленный отказ переводит
// обработанный, но не завершённый платёж в fail.
func (s *finishService) decide(
	ctx context.Context,
	tx repositories.PaymentTx,
	payment *models.Payment,
	confirmed bool,
) (outcome, error) {
	if payment.PerformedAt == nil {
		return outcome{}, nil
	}
	if payment.IsCompleted() {
		return outcome{determined: true, success: payment.IsPayed()}, nil
	}
	if !confirmed {
		if err := s.payments.Fail(ctx, tx, payment); err != nil {
			return outcome{}, err
		}
	}
	return outcome{determined: true, success: confirmed}, nil
}

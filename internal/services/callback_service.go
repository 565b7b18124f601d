package services

import (
	"context"
	"strconv"

	"kassa_backend/internal/config"
	"kassa_backend/internal/dto"
	"kassa_backend/internal/kassa"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/models"
	"kassa_backend/internal/repositories"
	"kassa_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// CallbackService обрабатывает уведомления шлюза checkOrder и paymentAviso.
// Ошибки не выходят наружу: любой исход превращается в ответ шлюзу.
type CallbackService interface {
	Handle(ctx context.Context, endpoint kassa.Action, form *dto.NotificationForm) *kassa.Response
}

type callbackService struct {
	kassa     config.KassaConfig
	store     repositories.PaymentStore
	payments  PaymentService
	validator *NotificationValidator
}

func NewCallbackService(
	cfg config.KassaConfig,
	store repositories.PaymentStore,
	payments PaymentService,
	validator *NotificationValidator,
) CallbackService {
	return &callbackService{
		kassa:     cfg,
		store:     store,
		payments:  payments,
		validator: validator,
	}
}

func (s *callbackService) Handle(ctx context.Context, endpoint kassa.Action, form *dto.NotificationForm) *kassa.Response {
	ctx = logger.WithAction(logger.WithOrderID(ctx, form.OrderNumber), string(endpoint))

	var resp *kassa.Response
	err := s.store.InTx(ctx, func(tx repositories.PaymentTx) error {
		n, payment, err := s.validator.Validate(ctx, tx, form)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeDatabaseError {
				return err
			}
			logger.CtxWarn(ctx, "notification rejected", "error", err.Error(), "form", *form)
			s.failQuietly(ctx, tx, payment)
			resp = kassa.Failure(endpoint, err)
			return nil
		}

		logger.CtxInfo(ctx, "notification accepted",
			"invoice_id", n.InvoiceID,
			"order_sum", n.RawOrderSum(),
			"payment_type", n.PaymentType,
		)

		if n.Action != endpoint {
			logger.CtxWarn(ctx, "notification action does not match endpoint", "declared", string(n.Action))
			s.failQuietly(ctx, tx, payment)
			resp = kassa.Failure(endpoint, apperrors.ErrUnexpectedAction)
			return nil
		}

		resp, err = s.dispatch(ctx, tx, n, payment)
		if err != nil {
			logger.CtxWithError(ctx, "error processing order", err)
			s.failQuietly(ctx, tx, payment)
			resp = kassa.Failure(endpoint, apperrors.ErrProcessingOrder.WithError(err))
		}
		return nil
	})
	if err != nil {
		logger.CtxWithError(ctx, "payment transaction aborted", err)
		resp = kassa.Failure(endpoint, apperrors.ErrProcessingOrder.WithError(err))
	}

	logger.CtxInfo(ctx, "notification response", "code", resp.Code(), "body", string(resp.Bytes()))
	return resp
}

func (s *callbackService) dispatch(
	ctx context.Context,
	tx repositories.PaymentTx,
	n *kassa.Notification,
	payment *models.Payment,
) (*kassa.Response, error) {
	switch n.Action {
	case kassa.ActionCheckOrder:
		return s.checkOrder(ctx, tx, n, payment)
	case kassa.ActionPaymentAviso:
		return s.paymentAviso(ctx, tx, n, payment)
	default:
		return nil, apperrors.ErrUnexpectedAction
	}
}

// checkOrder фиксирует данные шлюза и переводит платёж в processed.
func (s *callbackService) checkOrder(
	ctx context.Context,
	tx repositories.PaymentTx,
	n *kassa.Notification,
	payment *models.Payment,
) (*kassa.Response, error) {
	if payment.State != models.PaymentStateCreated {
		return nil, apperrors.InvalidTransition(string(payment.State), string(models.PaymentStateProcessed))
	}

	next := payment.Clone()
	shopCurrency := int(n.ShopSumCurrencyPaycash)
	next.ShopSum = decimal.NewNullDecimal(n.ShopSumAmount)
	next.ShopCurrency = &shopCurrency
	next.InvoiceID = strconv.FormatInt(n.InvoiceID, 10)
	next.PayerCode = n.PaymentPayerCode
	if next.PaymentType == "" {
		next.PaymentType = models.PaymentType(n.PaymentType)
	}

	if err := s.payments.Process(ctx, tx, next); err != nil {
		return nil, err
	}
	*payment = *next

	return kassa.Success(n.Action, payment.ResultTime(), strconv.FormatInt(n.InvoiceID, 10), s.kassa.ShopID), nil
}

// paymentAviso завершает платёж. Повторное подтверждение успешного платежа - не ошибка.
func (s *callbackService) paymentAviso(
	ctx context.Context,
	tx repositories.PaymentTx,
	n *kassa.Notification,
	payment *models.Payment,
) (*kassa.Response, error) {
	if payment.State != models.PaymentStateSuccess {
		if err := s.payments.Complete(ctx, tx, payment); err != nil {
			return nil, err
		}
	} else {
		logger.CtxInfo(ctx, "repeated payment confirmation")
	}

	// в ответе номер счёта, сохранённый при checkOrder
	invoiceID := payment.InvoiceID
	if invoiceID == "" {
		invoiceID = strconv.FormatInt(n.InvoiceID, 10)
	}
	return kassa.Success(n.Action, payment.ResultTime(), invoiceID, s.kassa.ShopID), nil
}

// failQuietly переводит найденный платёж в fail; ошибки только логируются.
func (s *callbackService) failQuietly(ctx context.Context, tx repositories.PaymentTx, payment *models.Payment) {
	if payment == nil || payment.IsCompleted() {
		return
	}
	if err := s.payments.Fail(ctx, tx, payment); err != nil {
		logger.CtxWithError(ctx, "failed to mark payment as failed", err)
	}
}

package services

import (
	"context"
	"errors"
	"strconv"

	"kassa_backend/internal/config"
	"kassa_backend/internal/dto"
	"kassa_backend/internal/kassa"
	"kassa_backend/internal/models"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/validator"
	"kassa_backend/pkg/apperrors"
)

// Поля, ошибки которых определяют код ответа шлюзу.
const (
	fieldMD5            = "md5"
	fieldOrderNumber    = "orderNumber"
	fieldCustomerNumber = "customerNumber"
	fieldShopID         = "shopId"
	fieldPaymentType    = "paymentType"
)

// NotificationValidator проверяет уведомление шлюза и находит платёж под блокировкой.
type NotificationValidator struct {
	kassa     config.KassaConfig
	validator *validator.Validator
	signer    *kassa.Signer
}

func NewNotificationValidator(cfg config.KassaConfig, v *validator.Validator) *NotificationValidator {
	return &NotificationValidator{
		kassa:     cfg,
		validator: v,
		signer:    kassa.NewSigner(cfg.ShopPassword),
	}
}

// Validate возвращает разобранное уведомление и платёж.
// Платёж возвращается и при ошибке, если его удалось найти - его нужно перевести в fail.
// Ошибка хранилища возвращается как apperrors.CodeDatabaseError.
func (v *NotificationValidator) Validate(
	ctx context.Context,
	tx repositories.PaymentTx,
	form *dto.NotificationForm,
) (*kassa.Notification, *models.Payment, error) {
	form.Normalize()

	verr := &validator.ValidationError{Errors: map[string]string{}}
	if err := v.validator.Validate(form); err != nil {
		if !errors.As(err, &verr) {
			return nil, nil, apperrors.InternalError(err)
		}
	}

	var payment *models.Payment
	if !verr.Has(fieldOrderNumber) {
		p, err := tx.FindForUpdate(ctx, form.OrderNumber)
		switch {
		case errors.Is(err, repositories.ErrPaymentNotFound):
			verr.Add(fieldOrderNumber, "No such order")
		case err != nil:
			return nil, nil, apperrors.DatabaseError(err)
		default:
			payment = p
		}
	}

	if !verr.Has(fieldShopID) {
		if shopID, _ := validator.ParseInt(form.ShopID); shopID != v.kassa.ShopID {
			verr.Add(fieldShopID, "Unknown shop")
		}
	}

	if payment != nil {
		if !verr.Has(fieldCustomerNumber) && form.CustomerNumber != payment.CustomerID {
			verr.Add(fieldCustomerNumber, "Customer does not match the order")
		}
		if !verr.Has(fieldPaymentType) && payment.PaymentType != "" && string(payment.PaymentType) != form.PaymentType {
			verr.Add(fieldPaymentType, "Payment type does not match the order")
		}
	}

	if len(verr.Errors) > 0 {
		return nil, payment, classify(verr)
	}

	n, err := parseNotification(form)
	if err != nil {
		return nil, payment, apperrors.ErrCannotProcess.WithError(err)
	}

	if !v.signer.Verify(n) {
		return n, payment, apperrors.ErrSignatureInvalid
	}

	if !kassa.SumsMatch(payment.OrderSum, n.OrderSumAmount) {
		return n, payment, apperrors.ErrSumMismatch.WithDetails(map[string]string{
			"expected": payment.OrderSum.StringFixed(2),
			"declared": n.OrderSumAmount.String(),
		})
	}

	return n, payment, nil
}

// classify выбирает ошибку по приоритету: подпись > заказ > остальное.
func classify(verr *validator.ValidationError) *apperrors.AppError {
	switch {
	case verr.Has(fieldMD5):
		return apperrors.ErrSignatureInvalid.WithDetails(verr.Errors)
	case verr.Has(fieldOrderNumber), verr.Has(fieldCustomerNumber):
		return apperrors.ErrOrderUnknown.WithDetails(verr.Errors)
	default:
		return apperrors.ErrCannotProcess.WithDetails(verr.Errors)
	}
}

func parseNotification(form *dto.NotificationForm) (*kassa.Notification, error) {
	n := &kassa.Notification{
		Action:           kassa.Action(form.Action),
		OrderNumber:      form.OrderNumber,
		CustomerNumber:   form.CustomerNumber,
		PaymentType:      form.PaymentType,
		PaymentPayerCode: form.PaymentPayerCode,
		MD5:              form.MD5,
	}
	n.WithRawOrderSum(form.OrderSumAmount)

	var err error
	ints := []struct {
		raw string
		dst *int64
	}{
		{form.ShopID, &n.ShopID},
		{form.InvoiceID, &n.InvoiceID},
		{form.OrderSumCurrencyPaycash, &n.OrderSumCurrencyPaycash},
		{form.OrderSumBankPaycash, &n.OrderSumBankPaycash},
		{form.ShopSumCurrencyPaycash, &n.ShopSumCurrencyPaycash},
	}
	for _, f := range ints {
		if *f.dst, err = validator.ParseInt(f.raw); err != nil {
			return nil, err
		}
	}

	if form.ShopArticleID != "" {
		id, err := strconv.ParseInt(form.ShopArticleID, 10, 64)
		if err != nil {
			return nil, err
		}
		n.ShopArticleID = &id
	}

	if n.OrderSumAmount, err = kassa.ParseAmount(form.OrderSumAmount); err != nil {
		return nil, err
	}
	if n.ShopSumAmount, err = kassa.ParseAmount(form.ShopSumAmount); err != nil {
		return nil, err
	}
	return n, nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"kassa_backend/internal/dto"
	"kassa_backend/internal/models"
	"kassa_backend/internal/repositories"
	"kassa_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_Create(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPayment(t, "order-1")
	assert.Equal(t, models.PaymentStateCreated, p.State)
	assert.NotEmpty(t, p.CustomerID)
	assert.Equal(t, models.CurrencyRUB, p.OrderCurrency)
	assert.Nil(t, p.PerformedAt)
	assert.Nil(t, p.CompletedAt)
	assert.False(t, p.IsStarted())

	_, err := env.services.PaymentService.Create(context.Background(), &dto.CreatePaymentRequest{
		OrderID:  "order-1",
		OrderSum: decimal.RequireFromString("10"),
	})
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestPaymentService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]*dto.CreatePaymentRequest{
		"отрицательная сумма":   {OrderID: "a", OrderSum: decimal.RequireFromString("-1")},
		"три знака после точки": {OrderID: "a", OrderSum: decimal.RequireFromString("1.005")},
		"пустой номер заказа":   {OrderID: "", OrderSum: decimal.RequireFromString("1")},
		"неизвестная валюта":    {OrderID: "a", OrderSum: decimal.RequireFromString("1"), OrderCurrency: 840},
		"неизвестный способ":    {OrderID: "a", OrderSum: decimal.RequireFromString("1"), PaymentType: "ZZ"},
		"выключенный способ":    {OrderID: "a", OrderSum: decimal.RequireFromString("1"), PaymentType: "QS"},
		"некорректный email":    {OrderID: "a", OrderSum: decimal.RequireFromString("1"), CPSEmail: "nope"},
	}
	for name, req := range cases {
		_, err := env.services.PaymentService.Create(context.Background(), req)
		assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err), name)
	}
}

func TestPaymentService_GetByOrderID(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")

	p, err := env.services.PaymentService.GetByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", p.OrderID)

	_, err = env.services.PaymentService.GetByOrderID(context.Background(), "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestPaymentService_ProcessTwice(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")
	svc := env.services.PaymentService

	err := env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Process(context.Background(), tx, p)
	})
	require.NoError(t, err)

	err = env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Process(context.Background(), tx, p)
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	p := env.reload(t, "order-1")
	assert.Equal(t, models.PaymentStateProcessed, p.State)
	assert.NotNil(t, p.PerformedAt)
	assert.Nil(t, p.CompletedAt)
	assert.Equal(t, 1, env.eventCount(models.PaymentEventProcess))
}

func TestPaymentService_CompleteFromProcessed(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")
	svc := env.services.PaymentService
	ctx := context.Background()

	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Process(ctx, tx, p)
	}))
	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Complete(ctx, tx, p)
	}))

	p := env.reload(t, "order-1")
	assert.Equal(t, models.PaymentStateSuccess, p.State)
	assert.NotNil(t, p.CompletedAt)
	assert.True(t, p.IsPayed())

	for name, op := range map[string]func(ctx context.Context, tx repositories.PaymentTx, p *models.Payment) error{
		"complete": svc.Complete,
		"process":  svc.Process,
		"fail":     svc.Fail,
	} {
		err := env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
			return op(ctx, tx, p)
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition), name)
	}
	assert.Equal(t, models.PaymentStateSuccess, env.reload(t, "order-1").State)
	assert.Equal(t, 1, env.eventCount(models.PaymentEventSuccess))
}

func TestPaymentService_FailFromCreated(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")

	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return env.services.PaymentService.Fail(context.Background(), tx, p)
	}))

	p := env.reload(t, "order-1")
	assert.Equal(t, models.PaymentStateFail, p.State)
	assert.NotNil(t, p.CompletedAt)
	assert.Nil(t, p.PerformedAt)
	assert.True(t, p.IsStarted())
	assert.True(t, p.IsCompleted())
	assert.False(t, p.IsPayed())
}

func TestPaymentService_CompleteAfterUnprocessedFail(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")
	svc := env.services.PaymentService
	ctx := context.Background()

	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Fail(ctx, tx, p)
	}))
	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Complete(ctx, tx, p)
	}), "отказ до обработки можно исправить на успех")

	assert.Equal(t, models.PaymentStateSuccess, env.reload(t, "order-1").State)
}

func TestPaymentService_CompleteAfterProcessedFail(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")
	svc := env.services.PaymentService
	ctx := context.Background()

	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Process(ctx, tx, p)
	}))
	require.NoError(t, env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Fail(ctx, tx, p)
	}))

	err := env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		return svc.Complete(ctx, tx, p)
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	p := env.reload(t, "order-1")
	assert.Equal(t, models.PaymentStateFail, p.State)
	assert.NotNil(t, p.PerformedAt)
}

func TestPaymentService_EventsOnlyAfterCommit(t *testing.T) {
	env := newTestEnv(t)
	env.createPayment(t, "order-1")
	rollback := errors.New("rollback")

	err := env.inTx(t, "order-1", func(tx repositories.PaymentTx, p *models.Payment) error {
		if err := env.services.PaymentService.Process(context.Background(), tx, p); err != nil {
			return err
		}
		assert.Equal(t, 0, env.eventCount(models.PaymentEventProcess), "до коммита событий нет")
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	assert.Equal(t, 0, env.eventCount(models.PaymentEventProcess))
	assert.Equal(t, models.PaymentStateCreated, env.reload(t, "order-1").State)

	events, err := env.eventRepo.FindByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

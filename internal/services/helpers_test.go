package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"kassa_backend/internal/config"
	"kassa_backend/internal/dto"
	"kassa_backend/internal/email"
	"kassa_backend/internal/events"
	"kassa_backend/internal/kassa"
	"kassa_backend/internal/models"
	"kassa_backend/internal/orders"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

const (
	testShopID       = 12345
	testShopPassword = "123456"
	testInvoiceID    = "123456"
)

// fixedClock - часы с фиксированным Now для детерминированных ответов.
type fixedClock struct {
	clockz.Clock
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{Clock: clockz.RealClock, now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	cfg       config.KassaConfig
	clock     *fixedClock
	store     *repositories.MemoryPaymentStore
	eventRepo *repositories.MemoryPaymentEventRepository
	mailer    *email.NoopProvider
	services  *ServiceContainer

	mu        sync.Mutex
	published []events.PaymentEvent
}

func testKassaConfig() config.KassaConfig {
	return config.KassaConfig{
		Debug:        true,
		ShopID:       testShopID,
		SCID:         1,
		ShopPassword: testShopPassword,
		LocalURL:     "/kassa",
		PaymentTypes: config.DefaultPaymentTypes,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		cfg:       testKassaConfig(),
		clock:     newFixedClock(time.Date(2016, 3, 1, 12, 0, 0, 123456000, time.UTC)),
		store:     repositories.NewMemoryPaymentStore(),
		eventRepo: repositories.NewMemoryPaymentEventRepository(),
		mailer:    email.NewNoopProvider(email.NewTemplateManager()),
	}
	env.services = NewServiceContainer(env.cfg, Dependencies{
		Store:        env.store,
		EventRepo:    env.eventRepo,
		Orders:       orders.NewURLTemplateResolver("/orders/{order_id}/", "/orders/{order_id}/{result}/"),
		EmailService: env.mailer,
		Validator:    validator.New(env.cfg.PaymentTypes),
		Clock:        env.clock,
	})
	env.services.Events.Subscribe("test", func(_ context.Context, e events.PaymentEvent) error {
		env.mu.Lock()
		env.published = append(env.published, e)
		env.mu.Unlock()
		return nil
	})
	return env
}

// createPayment создаёт платёж на 1000.00 без способа оплаты.
func (e *testEnv) createPayment(t *testing.T, orderID string) *models.Payment {
	t.Helper()

	p, err := e.services.PaymentService.Create(context.Background(), &dto.CreatePaymentRequest{
		OrderID:  orderID,
		OrderSum: decimal.RequireFromString("1000.00"),
		CPSEmail: "payer@example.com",
		CPSPhone: "79991234567",
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) reload(t *testing.T, orderID string) *models.Payment {
	t.Helper()

	p, err := e.store.FindByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	return p
}

func (e *testEnv) eventCount(kind models.PaymentEventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, ev := range e.published {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// inTx выполняет переход над заблокированным платежом.
func (e *testEnv) inTx(t *testing.T, orderID string, fn func(tx repositories.PaymentTx, p *models.Payment) error) error {
	t.Helper()

	return e.store.InTx(context.Background(), func(tx repositories.PaymentTx) error {
		p, err := tx.FindForUpdate(context.Background(), orderID)
		if err != nil {
			return err
		}
		return fn(tx, p)
	})
}

// notificationForm - корректно подписанное уведомление по платежу.
func notificationForm(action kassa.Action, p *models.Payment, orderSum string) *dto.NotificationForm {
	form := &dto.NotificationForm{
		Action:                  string(action),
		ShopID:                  strconv.Itoa(testShopID),
		InvoiceID:               testInvoiceID,
		OrderNumber:             p.OrderID,
		CustomerNumber:          p.CustomerID,
		PaymentType:             "PC",
		OrderSumAmount:          orderSum,
		OrderSumCurrencyPaycash: "643",
		OrderSumBankPaycash:     "643",
		ShopSumAmount:           "975.30",
		ShopSumCurrencyPaycash:  "643",
	}
	signForm(form)
	return form
}

func signForm(form *dto.NotificationForm) {
	n := &kassa.Notification{
		Action:         kassa.Action(form.Action),
		CustomerNumber: form.CustomerNumber,
	}
	n.ShopID, _ = strconv.ParseInt(form.ShopID, 10, 64)
	n.InvoiceID, _ = strconv.ParseInt(form.InvoiceID, 10, 64)
	n.OrderSumCurrencyPaycash, _ = strconv.ParseInt(form.OrderSumCurrencyPaycash, 10, 64)
	n.OrderSumBankPaycash, _ = strconv.ParseInt(form.OrderSumBankPaycash, 10, 64)
	n.WithRawOrderSum(form.OrderSumAmount)

	form.MD5 = kassa.NewSigner(testShopPassword).Sign(n)
}

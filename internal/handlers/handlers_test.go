package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"kassa_backend/internal/auth"
	"kassa_backend/internal/config"
	"kassa_backend/internal/dto"
	"kassa_backend/internal/email"
	"kassa_backend/internal/kassa"
	"kassa_backend/internal/models"
	"kassa_backend/internal/orders"
	"kassa_backend/internal/repositories"
	"kassa_backend/internal/services"
	"kassa_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

const (
	testShopID    = 12345
	testPassword  = "123456"
	testAPISecret = "host-secret"
)

type fixedClock struct {
	clockz.Clock
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type testServer struct {
	cfg      config.KassaConfig
	store    *repositories.MemoryPaymentStore
	services *services.ServiceContainer
	router   *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.KassaConfig{
		ShopID:       testShopID,
		SCID:         54321,
		ShopPassword: testPassword,
		LocalURL:     "/kassa",
		ShopDomain:   "https://shop.example.com",
		PaymentTypes: config.DefaultPaymentTypes,
	}
	v := validator.New(cfg.PaymentTypes)
	store := repositories.NewMemoryPaymentStore()
	container := services.NewServiceContainer(cfg, services.Dependencies{
		Store:        store,
		EventRepo:    repositories.NewMemoryPaymentEventRepository(),
		Orders:       orders.NewURLTemplateResolver("/orders/{order_id}/", "/orders/{order_id}/{result}/"),
		EmailService: email.NewNoopProvider(email.NewTemplateManager()),
		Validator:    v,
		Clock:        fixedClock{Clock: clockz.RealClock, now: time.Date(2016, 3, 1, 12, 0, 0, 123456000, time.UTC)},
	})

	base := NewBaseHandler(v)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler().RegisterRoutes(router.Group(""))
	NewKassaHandler(base, cfg, container.CallbackService, container.FinishService).RegisterRoutes(router.Group(cfg.LocalURL))
	NewPaymentHandler(base, cfg, testAPISecret, container.PaymentService).RegisterRoutes(router.Group("/api/v1"))

	return &testServer{cfg: cfg, store: store, services: container, router: router}
}

func (s *testServer) createPayment(t *testing.T, orderID string) *models.Payment {
	t.Helper()

	p, err := s.services.PaymentService.Create(context.Background(), &dto.CreatePaymentRequest{
		OrderID:  orderID,
		OrderSum: decimal.RequireFromString("1000.00"),
	})
	require.NoError(t, err)
	return p
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func notification(action kassa.Action, p *models.Payment) url.Values {
	n := &kassa.Notification{
		Action:                  action,
		ShopID:                  testShopID,
		InvoiceID:               2000000001,
		CustomerNumber:          p.CustomerID,
		OrderSumCurrencyPaycash: 643,
		OrderSumBankPaycash:     643,
	}
	n.WithRawOrderSum("1000.00")

	return url.Values{
		"action":                  {string(action)},
		"md5":                     {kassa.NewSigner(testPassword).Sign(n)},
		"shopId":                  {strconv.Itoa(testShopID)},
		"invoiceId":               {"2000000001"},
		"orderNumber":             {p.OrderID},
		"customerNumber":          {p.CustomerID},
		"paymentType":             {"AC"},
		"orderSumAmount":          {"1000.00"},
		"orderSumCurrencyPaycash": {"643"},
		"orderSumBankPaycash":     {"643"},
		"shopSumAmount":           {"965.00"},
		"shopSumCurrencyPaycash":  {"643"},
	}
}

func TestKassaHandler_OrderCheck(t *testing.T) {
	s := newTestServer(t)
	p := s.createPayment(t, "order-1")

	w := s.postForm("/kassa/order-check/", notification(kassa.ActionCheckOrder, p))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Equal(t, "<?xml version='1.0' encoding='UTF-8'?>\n"+
		`<checkOrderResponse performedDatetime="2016-03-01T12:00:00.123456+00:00" `+
		`code="0" invoiceId="2000000001" shopId="12345"/>`, w.Body.String())
}

func TestKassaHandler_PaymentAvisoAfterCheck(t *testing.T) {
	s := newTestServer(t)
	p := s.createPayment(t, "order-1")

	require.Equal(t, http.StatusOK, s.postForm("/kassa/order-check/", notification(kassa.ActionCheckOrder, p)).Code)
	w := s.postForm("/kassa/payment-aviso/", notification(kassa.ActionPaymentAviso, p))

	assert.Contains(t, w.Body.String(), `<paymentAvisoResponse `)
	assert.Contains(t, w.Body.String(), `code="0"`)

	stored, err := s.store.FindByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStateSuccess, stored.State)
}

func TestKassaHandler_BadSignature(t *testing.T) {
	s := newTestServer(t)
	p := s.createPayment(t, "order-1")

	form := notification(kassa.ActionCheckOrder, p)
	form.Set("orderSumAmount", "1.00")
	w := s.postForm("/kassa/order-check/", form)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<?xml version='1.0' encoding='UTF-8'?>\n"+
		`<checkOrderResponse code="1" message="MD5 is incorrect"/>`, w.Body.String())
}

func TestKassaHandler_ActionMismatch(t *testing.T) {
	s := newTestServer(t)
	p := s.createPayment(t, "order-1")

	w := s.postForm("/kassa/payment-aviso/", notification(kassa.ActionCheckOrder, p))

	assert.Contains(t, w.Body.String(), `<paymentAvisoResponse code="100" message="unexpected parameter"/>`)
}

func TestKassaHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/kassa/order-check/", "/kassa/payment-aviso/"} {
		w := s.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestKassaHandler_FinishRedirects(t *testing.T) {
	s := newTestServer(t)
	p := s.createPayment(t, "order-1")
	require.Equal(t, http.StatusOK, s.postForm("/kassa/order-check/", notification(kassa.ActionCheckOrder, p)).Code)
	require.Equal(t, http.StatusOK, s.postForm("/kassa/payment-aviso/", notification(kassa.ActionPaymentAviso, p)).Code)

	w := s.postForm("/kassa/finish/", url.Values{"cr_action": {"payment_confirm"}, "cr_order_number": {"order-1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/orders/order-1/success/", w.Header().Get("Location"))

	w = s.postForm("/kassa/finish/", url.Values{"cr_action": {"payment_confirm"}, "cr_order_number": {"missing"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestKassaHandler_FinishDeclaredFailure(t *testing.T) {
	s := newTestServer(t)
	p := s.createPayment(t, "order-2")
	require.Equal(t, http.StatusOK, s.postForm("/kassa/order-check/", notification(kassa.ActionCheckOrder, p)).Code)

	req := httptest.NewRequest(http.MethodGet, "/kassa/finish/?cr_action=payment_fail&cr_order_number=order-2", nil)
	req.Header.Set("Referer", s.cfg.MoneyURL()+"/eshop.xml")
	w := s.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/orders/order-2/fail/", w.Header().Get("Location"))

	stored, err := s.store.FindByOrderID(context.Background(), "order-2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStateFail, stored.State)
}

func TestKassaHandler_FinishReferer(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/kassa/finish/?cr_action=payment_confirm&cr_order_number=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/kassa/finish/", nil)
	req.Header.Set("Referer", s.cfg.MoneyURL()+"/")
	w = s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Оплата заказа")
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func hostToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.IssueToken(testAPISecret, "shop", role, time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPaymentHandler_Create(t *testing.T) {
	s := newTestServer(t)

	body := `{"order_id":"order-9","order_sum":"1500.50","payment_type":"AC","cps_email":"payer@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", hostToken(t, auth.RoleHost))
	w := s.do(req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createPaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order-9", resp.Payment.OrderID)
	assert.Equal(t, "created", resp.Payment.State)
	assert.Equal(t, "1500.50", resp.Payment.OrderSum)

	assert.Equal(t, "https://money.yandex.ru/eshop.xml", resp.Form.TargetURL)
	assert.Equal(t, "12345", resp.Form.Fields["shopId"])
	assert.Equal(t, "54321", resp.Form.Fields["scid"])
	assert.Equal(t, "1500.50", resp.Form.Fields["sum"])
	assert.Equal(t, resp.Payment.CustomerID, resp.Form.Fields["customerNumber"])
	assert.Equal(t, "AC", resp.Form.Fields["paymentType"])
	assert.Equal(t, "payer@example.com", resp.Form.Fields["cps_email"])
	assert.Equal(t,
		"https://shop.example.com/kassa/finish/?cr_action=payment_confirm&cr_order_number=order-9",
		resp.Form.Fields["shopSuccessURL"])
	assert.NotContains(t, resp.Form.Fields, "cps_phone")
}

func TestPaymentHandler_CreateValidation(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/", strings.NewReader(`{"order_id":"","order_sum":"10.001"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", hostToken(t, auth.RoleHost))
	w := s.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_Get(t *testing.T) {
	s := newTestServer(t)
	s.createPayment(t, "order-3")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/order-3", nil)
	req.Header.Set("Authorization", hostToken(t, auth.RoleViewer))
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order-3", resp["order_id"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/payments/missing", nil)
	req.Header.Set("Authorization", hostToken(t, auth.RoleViewer))
	assert.Equal(t, http.StatusNotFound, s.do(req).Code)
}

func TestPaymentHandler_Auth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/order-3", nil)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", hostToken(t, auth.RoleViewer))
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)
}

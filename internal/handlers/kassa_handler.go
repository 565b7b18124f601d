package handlers

import (
	"net/http"

	"kassa_backend/internal/config"
	"kassa_backend/internal/dto"
	"kassa_backend/internal/kassa"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/middleware"
	"kassa_backend/internal/services"
	"kassa_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Страница для покупателя, открывшего /finish/ без параметров.
const finishPage = `<!DOCTYPE html>
<html lang="ru">
<head><meta charset="utf-8"><title>Оплата заказа</title></head>
<body>
<h1>Оплата заказа</h1>
<p>Результат оплаты будет отображён на странице заказа. Если вы не были перенаправлены автоматически, вернитесь в магазин.</p>
</body>
</html>
`

// KassaHandler - уведомления шлюза и возврат покупателя.
type KassaHandler struct {
	*BaseHandler
	cfg       config.KassaConfig
	callbacks services.CallbackService
	finish    services.FinishService
}

func NewKassaHandler(base *BaseHandler, cfg config.KassaConfig, callbacks services.CallbackService, finish services.FinishService) *KassaHandler {
	return &KassaHandler{
		BaseHandler: base,
		cfg:         cfg,
		callbacks:   callbacks,
		finish:      finish,
	}
}

func (h *KassaHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/order-check/", h.OrderCheck)
	r.POST("/payment-aviso/", h.PaymentAviso)

	r.GET("/finish/", middleware.GatewayRefererMiddleware(h.cfg), h.Finish)
	r.POST("/finish/", h.Finish)
}

// OrderCheck - проверка заказа перед списанием (checkOrder)
func (h *KassaHandler) OrderCheck(c *gin.Context) {
	h.handleNotification(c, kassa.ActionCheckOrder)
}

// PaymentAviso - уведомление об успешном списании (paymentAviso)
func (h *KassaHandler) PaymentAviso(c *gin.Context) {
	h.handleNotification(c, kassa.ActionPaymentAviso)
}

func (h *KassaHandler) handleNotification(c *gin.Context, action kassa.Action) {
	ctx := logger.WithAction(c.Request.Context(), string(action))

	var resp *kassa.Response
	var form dto.NotificationForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		logger.CtxWithError(ctx, "Failed to parse notification body", err)
		resp = kassa.Failure(action, apperrors.ErrCannotProcess.WithError(err))
	} else {
		ctx = logger.WithOrderID(ctx, form.OrderNumber)
		resp = h.callbacks.Handle(ctx, action, &form)
	}

	body := resp.Bytes()
	logger.CtxInfo(ctx, "Notification answered", "code", resp.Code(), "response", string(body))
	c.Data(http.StatusOK, kassa.ContentType, body)
}

// Finish - возврат покупателя со страницы шлюза
func (h *KassaHandler) Finish(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.FinishForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		logger.CtxWithError(ctx, "Failed to parse finish parameters", err)
		c.Redirect(http.StatusFound, services.RootURL)
		return
	}

	if form.IsEmpty() {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(finishPage))
		return
	}

	target := h.finish.Resolve(logger.WithOrderID(ctx, form.OrderNumber), &form)
	c.Redirect(http.StatusFound, target)
}

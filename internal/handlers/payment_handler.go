package handlers

import (
	"net/http"
	"strconv"

	"kassa_backend/internal/auth"
	"kassa_backend/internal/config"
	"kassa_backend/internal/dto"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/middleware"
	"kassa_backend/internal/models"
	"kassa_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PaymentHandler - JSON API хост-приложения: создание платежа и его статус.
type PaymentHandler struct {
	*BaseHandler
	cfg            config.KassaConfig
	secret         string
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, cfg config.KassaConfig, secret string, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		cfg:            cfg,
		secret:         secret,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware(h.secret))
	{
		payments.POST("/", middleware.RequirePermission(auth.PermissionPaymentsWrite), h.CreatePayment)
		payments.GET("/:order_id", middleware.RequirePermission(auth.PermissionPaymentsRead), h.GetPayment)
	}
}

type createPaymentResponse struct {
	Payment dto.PaymentResponse     `json:"payment"`
	Form    dto.PaymentFormResponse `json:"form"`
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "Payment created",
		"order_id", payment.OrderID,
		"client", middleware.GetClientID(c),
	)
	c.JSON(http.StatusCreated, createPaymentResponse{
		Payment: toPaymentResponse(payment),
		Form:    h.paymentForm(payment),
	})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetByOrderID(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// paymentForm - поля формы, которую покупатель отправляет на шлюз.
func (h *PaymentHandler) paymentForm(p *models.Payment) dto.PaymentFormResponse {
	fields := map[string]string{
		"shopId":         strconv.FormatInt(h.cfg.ShopID, 10),
		"scid":           strconv.FormatInt(h.cfg.SCID, 10),
		"sum":            p.OrderSum.StringFixed(2),
		"customerNumber": p.CustomerID,
		"orderNumber":    p.OrderID,
		"shopSuccessURL": h.cfg.FinishURL(dto.FinishActionConfirm, p.OrderID),
		"shopFailURL":    h.cfg.FinishURL(dto.FinishActionFail, p.OrderID),
	}
	if p.PaymentType != "" {
		fields["paymentType"] = string(p.PaymentType)
	}
	if p.CPSEmail != "" {
		fields["cps_email"] = p.CPSEmail
	}
	if p.CPSPhone != "" {
		fields["cps_phone"] = p.CPSPhone
	}
	return dto.PaymentFormResponse{
		TargetURL: h.cfg.TargetURL(),
		Fields:    fields,
	}
}

func toPaymentResponse(p *models.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		CustomerID:    p.CustomerID,
		State:         string(p.State),
		PaymentType:   string(p.PaymentType),
		OrderSum:      p.OrderSum.StringFixed(2),
		OrderCurrency: p.OrderCurrency,
		InvoiceID:     p.InvoiceID,
		CreatedAt:     p.CreatedAt,
		PerformedAt:   p.PerformedAt,
		CompletedAt:   p.CompletedAt,
	}
}

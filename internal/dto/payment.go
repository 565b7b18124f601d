package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest - создание платежа хост-приложением перед отправкой покупателя на шлюз.
type CreatePaymentRequest struct {
	OrderID       string          `json:"order_id" validate:"required,min=1,max=64"`
	OrderSum      decimal.Decimal `json:"order_sum" validate:"required,kassa-money"`
	OrderCurrency int             `json:"order_currency" validate:"omitempty,oneof=643 10643"`
	PaymentType   string          `json:"payment_type" validate:"omitempty,len=2,payment-type"`
	UserID        *string         `json:"user_id" validate:"omitempty,uuid"`
	CPSEmail      string          `json:"cps_email" validate:"omitempty,email,max=254"`
	CPSPhone      string          `json:"cps_phone" validate:"omitempty,max=15"`
}

// PaymentResponse - платёж в ответах JSON API.
type PaymentResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	CustomerID    string     `json:"customer_id"`
	State         string     `json:"state"`
	PaymentType   string     `json:"payment_type,omitempty"`
	OrderSum      string     `json:"order_sum"`
	OrderCurrency int        `json:"order_currency"`
	InvoiceID     string     `json:"invoice_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	PerformedAt   *time.Time `json:"performed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// PaymentFormResponse - параметры платёжной формы, которую хост отправляет на шлюз.
type PaymentFormResponse struct {
	TargetURL string            `json:"target_url"`
	Fields    map[string]string `json:"fields"`
}

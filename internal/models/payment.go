package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment - платёж по одному заказу магазина.
// Поля меняет только машина состояний (services.PaymentService).
type Payment struct {
	ID         string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     *string `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	OrderID    string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_id"`
	CustomerID string  `gorm:"type:varchar(36);uniqueIndex;not null" json:"customer_id"`

	State PaymentState `gorm:"type:varchar(16);not null;default:'created';index" json:"state"`

	PaymentType PaymentType `gorm:"type:varchar(2)" json:"payment_type,omitempty"`
	InvoiceID   string      `gorm:"type:varchar(64)" json:"invoice_id,omitempty"`

	OrderSum      decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"order_sum"`
	OrderCurrency int                 `gorm:"not null;default:643" json:"order_currency"`
	ShopSum       decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"shop_sum"`
	ShopCurrency  *int                `json:"shop_currency,omitempty"`
	PayerCode     string              `gorm:"type:varchar(33)" json:"payer_code,omitempty"`

	CPSEmail string `gorm:"type:varchar(254)" json:"cps_email,omitempty"`
	CPSPhone string `gorm:"type:varchar(15)" json:"cps_phone,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// IsPayed - платёж успешно завершён
func (p *Payment) IsPayed() bool {
	return p.State == PaymentStateSuccess
}

// IsStarted - шлюз хотя бы раз трогал платёж (включая отказ до обработки)
func (p *Payment) IsStarted() bool {
	return p.State != PaymentStateCreated
}

// IsCompleted - платёж в терминальном состоянии
func (p *Payment) IsCompleted() bool {
	return p.State == PaymentStateSuccess || p.State == PaymentStateFail
}

// ResultTime - время для performedDatetime в ответе шлюзу.
func (p *Payment) ResultTime() time.Time {
	if p.CompletedAt != nil {
		return *p.CompletedAt
	}
	if p.PerformedAt != nil {
		return *p.PerformedAt
	}
	return time.Time{}
}

// Clone возвращает независимую копию (указатели на время копируются по значению).
func (p *Payment) Clone() *Payment {
	cp := *p
	if p.UserID != nil {
		v := *p.UserID
		cp.UserID = &v
	}
	if p.ShopCurrency != nil {
		v := *p.ShopCurrency
		cp.ShopCurrency = &v
	}
	if p.PerformedAt != nil {
		v := *p.PerformedAt
		cp.PerformedAt = &v
	}
	if p.CompletedAt != nil {
		v := *p.CompletedAt
		cp.CompletedAt = &v
	}
	return &cp
}

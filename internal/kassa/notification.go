package kassa

import (
	"github.com/shopspring/decimal"
)

// Action - тип уведомления шлюза.
type Action string

const (
	ActionCheckOrder   Action = "checkOrder"
	ActionPaymentAviso Action = "paymentAviso"
)

// ResponseTag - имя корневого элемента ответа на уведомление.
func (a Action) ResponseTag() string {
	return string(a) + "Response"
}

func (a Action) Valid() bool {
	return a == ActionCheckOrder || a == ActionPaymentAviso
}

// Notification - разобранное и проверенное уведомление шлюза.
type Notification struct {
	Action         Action
	ShopID         int64
	OrderNumber    string
	CustomerNumber string
	PaymentType    string
	InvoiceID      int64

	OrderSumAmount          decimal.Decimal
	OrderSumCurrencyPaycash int64
	OrderSumBankPaycash     int64
	ShopSumAmount           decimal.Decimal
	ShopSumCurrencyPaycash  int64

	ShopArticleID    *int64
	PaymentPayerCode string

	MD5 string

	// orderSumRaw - сумма в том виде, в котором её прислал шлюз; участвует в подписи.
	orderSumRaw string
}

// WithRawOrderSum запоминает исходную строку суммы заказа для проверки подписи.
func (n *Notification) WithRawOrderSum(raw string) *Notification {
	n.orderSumRaw = raw
	return n
}

// RawOrderSum - сумма заказа для подписи: исходная строка, иначе каноническая запись.
func (n *Notification) RawOrderSum() string {
	if n.orderSumRaw != "" {
		return n.orderSumRaw
	}
	return n.OrderSumAmount.String()
}

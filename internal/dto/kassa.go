package dto

import "strings"

// NotificationForm - уведомление шлюза как оно пришло (form-urlencoded).
// Все поля строковые: типы проверяются валидатором, разбор - в NotificationValidator.
type NotificationForm struct {
	MD5                     string `form:"md5" validate:"required,len=32"`
	Action                  string `form:"action" validate:"required,oneof=checkOrder paymentAviso"`
	ShopID                  string `form:"shopId" validate:"required,kassa-int"`
	InvoiceID               string `form:"invoiceId" validate:"required,kassa-int=1"`
	OrderNumber             string `form:"orderNumber" validate:"required,min=1,max=64"`
	CustomerNumber          string `form:"customerNumber" validate:"required,min=1,max=64"`
	PaymentType             string `form:"paymentType" validate:"required,len=2"`
	OrderSumAmount          string `form:"orderSumAmount" validate:"required,kassa-money"`
	OrderSumCurrencyPaycash string `form:"orderSumCurrencyPaycash" validate:"required,kassa-int"`
	OrderSumBankPaycash     string `form:"orderSumBankPaycash" validate:"required,kassa-int"`
	ShopSumAmount           string `form:"shopSumAmount" validate:"required,kassa-money"`
	ShopSumCurrencyPaycash  string `form:"shopSumCurrencyPaycash" validate:"required,kassa-int"`
	ShopArticleID           string `form:"shopArticleId" validate:"omitempty,kassa-int"`
	PaymentPayerCode        string `form:"paymentPayerCode" validate:"omitempty,max=33"`
}

// Normalize обрезает пробелы по краям значений.
func (f *NotificationForm) Normalize() {
	for _, field := range []*string{
		&f.MD5, &f.Action, &f.ShopID, &f.InvoiceID, &f.OrderNumber, &f.CustomerNumber,
		&f.PaymentType, &f.OrderSumAmount, &f.OrderSumCurrencyPaycash, &f.OrderSumBankPaycash,
		&f.ShopSumAmount, &f.ShopSumCurrencyPaycash, &f.ShopArticleID, &f.PaymentPayerCode,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// Finish actions
const (
	FinishActionConfirm = "payment_confirm"
	FinishActionFail    = "payment_fail"
)

// FinishForm - параметры возврата покупателя со шлюза.
type FinishForm struct {
	Action      string `form:"cr_action" validate:"required,oneof=payment_confirm payment_fail"`
	OrderNumber string `form:"cr_order_number" validate:"required,min=1,max=64"`
}

// IsEmpty - ни одного cr_* параметра не передано.
func (f *FinishForm) IsEmpty() bool {
	return f.Action == "" && f.OrderNumber == ""
}

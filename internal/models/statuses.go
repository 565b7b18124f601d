package models

type PaymentState string

const (
	PaymentStateCreated   PaymentState = "created"
	PaymentStateProcessed PaymentState = "processed"
	PaymentStateSuccess   PaymentState = "success"
	PaymentStateFail      PaymentState = "fail"
)

// Коды валют шлюза (ISO 4217 numeric, 10643 - тестовая валюта демо-стенда)
const (
	CurrencyRUB  = 643
	CurrencyTest = 10643
)

type PaymentType string

// Способы оплаты, которые знает шлюз. Магазин принимает подмножество из конфига.
const (
	PaymentTypeAlfaClick     PaymentType = "AB"
	PaymentTypeCard          PaymentType = "AC"
	PaymentTypeTerminalCash  PaymentType = "GP"
	PaymentTypeMasterPass    PaymentType = "MA"
	PaymentTypeMobileAccount PaymentType = "MC"
	PaymentTypePromsvyazbank PaymentType = "PB"
	PaymentTypeYandexMoney   PaymentType = "PC"
	PaymentTypeSberbank      PaymentType = "SB"
	PaymentTypeWebMoney      PaymentType = "WM"
	PaymentTypeQiwiWallet    PaymentType = "QS"
)

// PaymentTypeNames - подписи способов оплаты для формы оплаты и писем.
var PaymentTypeNames = map[PaymentType]string{
	PaymentTypeAlfaClick:     "Альфа-Клик",
	PaymentTypeCard:          "Банковская карта",
	PaymentTypeTerminalCash:  "Наличные через терминал",
	PaymentTypeMasterPass:    "MasterPass",
	PaymentTypeMobileAccount: "Счет мобильного телефона",
	PaymentTypePromsvyazbank: "Интернет-банк Промсвязьбанка",
	PaymentTypeYandexMoney:   "Кошелек Яндекс.Денег",
	PaymentTypeSberbank:      "Сбербанк Онлайн",
	PaymentTypeWebMoney:      "Кошелек WebMoney",
	PaymentTypeQiwiWallet:    "QiWi кошелёк",
}

// IsKnown сообщает, что код входит в список способов оплаты шлюза.
func (t PaymentType) IsKnown() bool {
	_, ok := PaymentTypeNames[t]
	return ok
}

type PaymentEventKind string

const (
	PaymentEventProcess PaymentEventKind = "payment_process"
	PaymentEventSuccess PaymentEventKind = "payment_success"
	PaymentEventFail    PaymentEventKind = "payment_fail"
)

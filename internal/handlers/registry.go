package handlers

// AppHandlers содержит все хэндлеры приложения.
// PaymentHandler равен nil, если JSON API хоста выключен.
type AppHandlers struct {
	KassaHandler   *KassaHandler
	PaymentHandler *PaymentHandler
	HealthHandler  *HealthHandler
}

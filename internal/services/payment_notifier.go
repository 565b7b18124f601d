package services

import (
	"context"

	"kassa_backend/internal/email"
	"kassa_backend/internal/events"
	"kassa_backend/internal/models"
)

// NewPayerNotifier отправляет покупателю письмо о результате оплаты.
// Письмо уходит только при success/fail и только если известен email.
func NewPayerNotifier(provider email.Provider) events.Listener {
	return func(ctx context.Context, e events.PaymentEvent) error {
		p := e.Payment
		if p.CPSEmail == "" {
			return nil
		}

		var (
			subject  string
			template string
		)
		switch e.Kind {
		case models.PaymentEventSuccess:
			subject, template = "Заказ "+p.OrderID+" оплачен", email.TemplatePaymentSuccess
		case models.PaymentEventFail:
			subject, template = "Оплата заказа "+p.OrderID+" не прошла", email.TemplatePaymentFail
		default:
			return nil
		}

		return provider.SendTemplate([]string{p.CPSEmail}, subject, template, email.TemplateData{
			"OrderID":     p.OrderID,
			"Sum":         p.OrderSum.StringFixed(2),
			"PaymentType": models.PaymentTypeNames[p.PaymentType],
			"InvoiceID":   p.InvoiceID,
		})
	}
}

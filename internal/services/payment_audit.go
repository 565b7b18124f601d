package services

import (
	"context"
	"encoding/json"
	"fmt"

	"kassa_backend/internal/events"
	"kassa_backend/internal/models"
	"kassa_backend/internal/repositories"

	"gorm.io/datatypes"
)

// NewPaymentAuditListener пишет каждый переход платежа в журнал payment_events.
func NewPaymentAuditListener(repo repositories.PaymentEventRepository) events.Listener {
	return func(ctx context.Context, e events.PaymentEvent) error {
		snapshot, err := json.Marshal(e.Payment)
		if err != nil {
			return fmt.Errorf("marshal payment snapshot: %w", err)
		}

		return repo.Create(ctx, &models.PaymentEvent{
			PaymentID: e.Payment.ID,
			OrderID:   e.Payment.OrderID,
			Kind:      e.Kind,
			State:     e.Payment.State,
			Snapshot:  datatypes.JSON(snapshot),
			CreatedAt: e.OccurredAt,
		})
	}
}

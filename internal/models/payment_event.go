package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEvent - запись журнала переходов платежа.
type PaymentEvent struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	PaymentID string           `gorm:"type:varchar(36);index;not null" json:"payment_id"`
	OrderID   string           `gorm:"type:varchar(64);index;not null" json:"order_id"`
	Kind      PaymentEventKind `gorm:"type:varchar(32);not null" json:"kind"`
	State     PaymentState     `gorm:"type:varchar(16);not null" json:"state"`
	Snapshot  datatypes.JSON   `json:"snapshot"`
	CreatedAt time.Time        `json:"created_at"`
}

func (PaymentEvent) TableName() string { return "payment_events" }

package repositories

import (
	"context"
	"sync"

	"kassa_backend/internal/models"

	"gorm.io/gorm"
)

// PaymentEventRepository - журнал переходов платежей.
type PaymentEventRepository interface {
	Create(ctx context.Context, event *models.PaymentEvent) error
	FindByOrderID(ctx context.Context, orderID string) ([]models.PaymentEvent, error)
}

type PaymentEventRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &PaymentEventRepositoryImpl{db: db}
}

func (r *PaymentEventRepositoryImpl) Create(ctx context.Context, event *models.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *PaymentEventRepositoryImpl) FindByOrderID(ctx context.Context, orderID string) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

// MemoryPaymentEventRepository - журнал в памяти для driver: memory.
type MemoryPaymentEventRepository struct {
	mu     sync.Mutex
	events []models.PaymentEvent
}

func NewMemoryPaymentEventRepository() *MemoryPaymentEventRepository {
	return &MemoryPaymentEventRepository{}
}

func (r *MemoryPaymentEventRepository) Create(_ context.Context, event *models.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uint(len(r.events) + 1)
	r.events = append(r.events, *event)
	return nil
}

func (r *MemoryPaymentEventRepository) FindByOrderID(_ context.Context, orderID string) ([]models.PaymentEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.PaymentEvent
	for _, e := range r.events {
		if e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

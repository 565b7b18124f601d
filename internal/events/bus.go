package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kassa_backend/internal/logger"
	"kassa_backend/internal/models"
)

// PaymentEvent - переход платежа, о котором оповещаются подписчики.
type PaymentEvent struct {
	Kind       models.PaymentEventKind
	Payment    *models.Payment // снимок после перехода
	OccurredAt time.Time
}

// Listener обрабатывает событие. Ошибка логируется и не влияет на остальных подписчиков.
type Listener func(ctx context.Context, event PaymentEvent) error

type subscription struct {
	name     string
	listener Listener
}

// Bus - синхронная рассылка событий платежей.
// Publish вызывается только после коммита транзакции, в которой произошёл переход.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe добавляет подписчика. name используется в логах.
func (b *Bus) Subscribe(name string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{name: name, listener: l})
}

// Publish по очереди вызывает подписчиков в порядке подписки.
func (b *Bus) Publish(ctx context.Context, event PaymentEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := b.call(ctx, s, event); err != nil {
			logger.CtxWithError(ctx, "payment event listener failed", err,
				"listener", s.name,
				"kind", string(event.Kind),
			)
		}
	}
}

func (b *Bus) call(ctx context.Context, s subscription, event PaymentEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return s.listener(ctx, event)
}

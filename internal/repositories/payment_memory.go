package repositories

import (
	"context"
	"sort"
	"sync"

	"kassa_backend/internal/models"
)

// MemoryPaymentStore - хранилище платежей в памяти (driver: memory, тесты).
// Блокировка строки заменена мьютексом на номер заказа.
type MemoryPaymentStore struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
	locks    map[string]*orderLock
}

// orderLock живёт в locks, пока его держат или ждут (refs > 0).
type orderLock struct {
	ch   chan struct{}
	refs int
}

func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{
		payments: make(map[string]*models.Payment),
		locks:    make(map[string]*orderLock),
	}
}

func (s *MemoryPaymentStore) acquireLock(orderID string) *orderLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[orderID]
	if !ok {
		l = &orderLock{ch: make(chan struct{}, 1)}
		s.locks[orderID] = l
	}
	l.refs++
	return l
}

func (s *MemoryPaymentStore) releaseLock(orderID string, l *orderLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(s.locks, orderID)
	}
}

func (s *MemoryPaymentStore) InTx(ctx context.Context, fn func(tx PaymentTx) error) error {
	tx := &memoryPaymentTx{
		store:            s,
		held:             make(map[string]*orderLock),
		staged:           make(map[string]*models.Payment),
		afterCommitQueue: &afterCommitQueue{},
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	for orderID, p := range tx.staged {
		s.payments[orderID] = p
	}
	s.mu.Unlock()

	tx.release()
	tx.run()
	return nil
}

func (s *MemoryPaymentStore) Create(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[payment.OrderID]; exists {
		return ErrPaymentExists
	}
	for _, p := range s.payments {
		if p.CustomerID == payment.CustomerID || p.ID == payment.ID {
			return ErrPaymentExists
		}
	}
	s.payments[payment.OrderID] = payment.Clone()
	return nil
}

func (s *MemoryPaymentStore) FindByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[orderID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return p.Clone(), nil
}

// All возвращает копии всех платежей, отсортированные по номеру заказа.
func (s *MemoryPaymentStore) All() []*models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderID < result[j].OrderID })
	return result
}

type memoryPaymentTx struct {
	store  *MemoryPaymentStore
	held   map[string]*orderLock
	staged map[string]*models.Payment
	*afterCommitQueue
}

func (t *memoryPaymentTx) FindForUpdate(ctx context.Context, orderID string) (*models.Payment, error) {
	if p, ok := t.staged[orderID]; ok {
		return p.Clone(), nil
	}

	if _, ok := t.held[orderID]; !ok {
		l := t.store.acquireLock(orderID)
		select {
		case l.ch <- struct{}{}:
			t.held[orderID] = l
		case <-ctx.Done():
			t.store.releaseLock(orderID, l)
			return nil, ctx.Err()
		}
	}

	p, err := t.store.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (t *memoryPaymentTx) Save(_ context.Context, payment *models.Payment) error {
	if _, ok := t.staged[payment.OrderID]; !ok {
		if _, err := t.store.FindByOrderID(context.Background(), payment.OrderID); err != nil {
			return err
		}
	}
	t.staged[payment.OrderID] = payment.Clone()
	return nil
}

func (t *memoryPaymentTx) release() {
	for orderID, l := range t.held {
		<-l.ch
		t.store.releaseLock(orderID, l)
		delete(t.held, orderID)
	}
}

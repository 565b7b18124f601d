package repositories

import (
	"context"
	"errors"
	"time"

	"kassa_backend/internal/logger"
	"kassa_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentExists   = errors.New("payment for this order already exists")
)

// PaymentTx - операции с платежами внутри одной транзакции хранилища.
type PaymentTx interface {
	// FindForUpdate читает платёж по номеру заказа и блокирует его до конца транзакции.
	FindForUpdate(ctx context.Context, orderID string) (*models.Payment, error)
	Save(ctx context.Context, payment *models.Payment) error
	// AfterCommit ставит fn в очередь; очередь выполняется только после успешного коммита.
	AfterCommit(fn func())
}

// PaymentStore - хранилище платежей.
type PaymentStore interface {
	// InTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
	InTx(ctx context.Context, fn func(tx PaymentTx) error) error
	Create(ctx context.Context, payment *models.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
}

// afterCommitQueue - отложенные действия транзакции.
type afterCommitQueue struct {
	fns []func()
}

func (q *afterCommitQueue) AfterCommit(fn func()) {
	q.fns = append(q.fns, fn)
}

func (q *afterCommitQueue) run() {
	for _, fn := range q.fns {
		fn()
	}
	q.fns = nil
}

type PaymentStoreImpl struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) PaymentStore {
	return &PaymentStoreImpl{db: db}
}

func (r *PaymentStoreImpl) InTx(ctx context.Context, fn func(tx PaymentTx) error) error {
	queue := &afterCommitQueue{}

	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormPaymentTx{db: db, afterCommitQueue: queue})
	})
	if err != nil {
		return err
	}

	queue.run()
	return nil
}

func (r *PaymentStoreImpl) Create(ctx context.Context, payment *models.Payment) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrPaymentExists
	}
	logger.DBLog("payment.create", payment.OrderID, time.Since(start), err)
	return err
}

func (r *PaymentStoreImpl) FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

type gormPaymentTx struct {
	db *gorm.DB
	*afterCommitQueue
}

func (t *gormPaymentTx) FindForUpdate(ctx context.Context, orderID string) (*models.Payment, error) {
	start := time.Now()

	var payment models.Payment
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.DBLog("payment.lock", orderID, time.Since(start), nil)
		return nil, ErrPaymentNotFound
	}
	logger.DBLog("payment.lock", orderID, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (t *gormPaymentTx) Save(ctx context.Context, payment *models.Payment) error {
	start := time.Now()
	result := t.db.WithContext(ctx).Save(payment)
	logger.DBLog("payment.save", payment.OrderID, time.Since(start), result.Error)
	return result.Error
}

package email

import (
	"errors"
	"sync"

	"kassa_backend/internal/logger"
)

var (
	ErrQueueFull      = errors.New("email queue is full")
	ErrProviderClosed = errors.New("email provider is closed")
)

// AsyncProvider ставит письма в очередь и отправляет их в фоне через next.
// Send/SendTemplate не ждут SMTP; ошибки отправки только логируются.
type AsyncProvider struct {
	next  Provider
	queue chan func() error

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncProvider(next Provider, queueSize int) *AsyncProvider {
	if queueSize <= 0 {
		queueSize = 1
	}
	p := &AsyncProvider{
		next:  next,
		queue: make(chan func() error, queueSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *AsyncProvider) run() {
	defer p.wg.Done()
	for send := range p.queue {
		if err := send(); err != nil {
			logger.Error("failed to send email", "error", err.Error())
		}
	}
}

func (p *AsyncProvider) enqueue(send func() error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProviderClosed
	}
	select {
	case p.queue <- send:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncProvider) Send(email *Email) error {
	msg := *email
	return p.enqueue(func() error { return p.next.Send(&msg) })
}

func (p *AsyncProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	recipients := append([]string(nil), to...)
	return p.enqueue(func() error {
		return p.next.SendTemplate(recipients, subject, templateName, data)
	})
}

// Close перестаёт принимать письма и ждёт отправки уже поставленных.
func (p *AsyncProvider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

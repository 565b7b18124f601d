package email

import "sync"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendTemplate отправляет email по шаблону
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

// NoopProvider - отправка писем отключена; письма только запоминаются (для тестов).
type NoopProvider struct {
	renderer TemplateRenderer

	mu   sync.Mutex
	sent []Email
}

func NewNoopProvider(renderer TemplateRenderer) *NoopProvider {
	return &NoopProvider{renderer: renderer}
}

func (p *NoopProvider) Send(email *Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, *email)
	return nil
}

func (p *NoopProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	email := &Email{To: to, Subject: subject}
	if p.renderer != nil {
		body, err := p.renderer.Render(templateName, data)
		if err != nil {
			return err
		}
		email.HTMLBody = body
	}
	return p.Send(email)
}

// Sent возвращает копию отправленных писем.
func (p *NoopProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Email(nil), p.sent...)
}

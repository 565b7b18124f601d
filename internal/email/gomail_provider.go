package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// GomailProvider отправляет письма через SMTP (gomail).
type GomailProvider struct {
	config   *SMTPConfig
	renderer TemplateRenderer
	dialer   *gomail.Dialer
}

func NewGomailProvider(config *SMTPConfig, renderer TemplateRenderer) *GomailProvider {
	return &GomailProvider{
		config:   config,
		renderer: renderer,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// Send отправляет email сообщение
func (p *GomailProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	m := gomail.NewMessage()
	if p.config.FromName != "" {
		m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	} else {
		m.SetHeader("From", p.config.FromEmail)
	}
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTemplate рендерит шаблон и отправляет письмо
func (p *GomailProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	if p.renderer == nil {
		return fmt.Errorf("template renderer is not configured")
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{To: to, Subject: subject, HTMLBody: htmlBody})
}

// Validate проверяет конфигурацию SMTP
func (p *GomailProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}

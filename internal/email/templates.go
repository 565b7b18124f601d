package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Имена встроенных шаблонов писем покупателю
const (
	TemplatePaymentSuccess = "payment_success"
	TemplatePaymentFail    = "payment_fail"
)

const paymentSuccessTemplate = `<p>Здравствуйте!</p>
<p>Оплата заказа <b>{{.OrderID}}</b> на сумму {{.Sum}} руб. прошла успешно.</p>
{{if .PaymentType}}<p>Способ оплаты: {{.PaymentType}}</p>{{end}}
<p>Номер платежа в системе: {{.InvoiceID}}</p>`

const paymentFailTemplate = `<p>Здравствуйте!</p>
<p>Оплата заказа <b>{{.OrderID}}</b> на сумму {{.Sum}} руб. не прошла.</p>
<p>Вы можете попробовать оплатить заказ ещё раз.</p>`

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// встроенные шаблоны заведомо корректны
	_ = tm.AddTemplate(TemplatePaymentSuccess, paymentSuccessTemplate)
	_ = tm.AddTemplate(TemplatePaymentFail, paymentFailTemplate)
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

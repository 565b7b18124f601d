// Package orders - узкий интерфейс к заказам хост-приложения:
// поиск заказа по номеру и ссылки, куда вернуть покупателя.
package orders

import (
	"context"
	"net/url"
	"strings"
)

// Order - заказ хост-приложения.
type Order interface {
	// AbsoluteURL - страница заказа.
	AbsoluteURL() string
	// CompleteURL - страница результата оплаты.
	CompleteURL(success bool) string
}

// Resolver находит заказ по номеру. (nil, nil) - заказа нет.
type Resolver interface {
	GetByOrderID(ctx context.Context, orderID string) (Order, error)
}

// ResolverFunc позволяет использовать функцию как Resolver.
type ResolverFunc func(ctx context.Context, orderID string) (Order, error)

func (f ResolverFunc) GetByOrderID(ctx context.Context, orderID string) (Order, error) {
	return f(ctx, orderID)
}

const (
	placeholderOrderID = "{order_id}"
	placeholderResult  = "{result}"

	ResultSuccess = "success"
	ResultFail    = "fail"
)

// URLTemplateResolver строит ссылки на заказ по шаблонам из конфига.
// Пример: https://shop.example.com/orders/{order_id}/ и https://shop.example.com/orders/{order_id}/{result}/
type URLTemplateResolver struct {
	orderTemplate    string
	completeTemplate string
}

func NewURLTemplateResolver(orderTemplate, completeTemplate string) *URLTemplateResolver {
	return &URLTemplateResolver{
		orderTemplate:    orderTemplate,
		completeTemplate: completeTemplate,
	}
}

func (r *URLTemplateResolver) GetByOrderID(_ context.Context, orderID string) (Order, error) {
	if r.orderTemplate == "" || orderID == "" {
		return nil, nil
	}
	return &templateOrder{id: orderID, resolver: r}, nil
}

type templateOrder struct {
	id       string
	resolver *URLTemplateResolver
}

func (o *templateOrder) AbsoluteURL() string {
	return strings.ReplaceAll(o.resolver.orderTemplate, placeholderOrderID, url.PathEscape(o.id))
}

func (o *templateOrder) CompleteURL(success bool) string {
	if o.resolver.completeTemplate == "" {
		return o.AbsoluteURL()
	}
	result := ResultFail
	if success {
		result = ResultSuccess
	}
	u := strings.ReplaceAll(o.resolver.completeTemplate, placeholderOrderID, url.PathEscape(o.id))
	return strings.ReplaceAll(u, placeholderResult, result)
}

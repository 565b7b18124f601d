package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLTemplateResolver(t *testing.T) {
	r := NewURLTemplateResolver(
		"https://shop.example.com/orders/{order_id}/",
		"https://shop.example.com/orders/{order_id}/{result}/",
	)

	order, err := r.GetByOrderID(context.Background(), "A 1")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "https://shop.example.com/orders/A%201/", order.AbsoluteURL())
	assert.Equal(t, "https://shop.example.com/orders/A%201/success/", order.CompleteURL(true))
	assert.Equal(t, "https://shop.example.com/orders/A%201/fail/", order.CompleteURL(false))
}

func TestURLTemplateResolver_NoCompleteTemplate(t *testing.T) {
	r := NewURLTemplateResolver("/orders/{order_id}/", "")

	order, err := r.GetByOrderID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "/orders/42/", order.CompleteURL(true))
}

func TestURLTemplateResolver_NotConfigured(t *testing.T) {
	r := NewURLTemplateResolver("", "")

	order, err := r.GetByOrderID(context.Background(), "42")
	assert.NoError(t, err)
	assert.Nil(t, order)
}

func TestResolverFunc(t *testing.T) {
	called := ""
	var r Resolver = ResolverFunc(func(_ context.Context, id string) (Order, error) {
		called = id
		return nil, nil
	})

	_, _ = r.GetByOrderID(context.Background(), "x")
	assert.Equal(t, "x", called)
}

package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	orderIDKey   contextKey = "order_id"
	actionKey    contextKey = "kassa_action"
)

// WithRequestID добавляет request ID в context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithOrderID добавляет номер заказа, по которому пришло уведомление
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

// WithAction добавляет action уведомления шлюза (checkOrder, paymentAviso)
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, actionKey, action)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetOrderID(ctx context.Context) string {
	if orderID, ok := ctx.Value(orderIDKey).(string); ok {
		return orderID
	}
	return ""
}

// FromContext создает логгер с полями из context
func FromContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()

	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if orderID := GetOrderID(ctx); orderID != "" {
		fields = append(fields, "order_id", orderID)
	}
	if action, ok := ctx.Value(actionKey).(string); ok && action != "" {
		fields = append(fields, "action", action)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return logger
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError логирует error с error объектом
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	fields := append([]any{"error", err.Error()}, args...)
	FromContext(ctx).Error(msg, fields...)
}

package logger

import (
	"log/slog"
	"os"
	"time"
)

var log *slog.Logger

// Init инициализирует глобальный логгер.
// env: "development" - текстовый формат и debug-уровень, иначе JSON.
func Init(env string) {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует ошибку и завершает процесс
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}

// HTTPLog логирует HTTP запрос
func HTTPLog(method, path string, status int, duration time.Duration, size int) {
	GetLogger().Info("http request",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size_bytes", size,
	)
}

// DBLog логирует операцию с хранилищем платежей
func DBLog(operation, orderID string, duration time.Duration, err error) {
	fields := []any{
		"operation", operation,
		"order_id", orderID,
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("database operation failed", fields...)
	} else {
		GetLogger().Debug("database operation", fields...)
	}
}

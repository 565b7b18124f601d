package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kassa_backend/internal/config"
	"kassa_backend/internal/logger"
	"kassa_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		log := logger.FromContext(c.Request.Context())
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
			slog.Int("size_bytes", c.Writer.Size()),
		}
		if c.Writer.Status() >= 500 {
			log.Error("HTTP Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			log.Warn("HTTP Client Error", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}
	}
}

// GatewayRefererMiddleware пропускает GET только если покупатель пришёл со шлюза.
// В debug-режиме проверка отключена.
func GatewayRefererMiddleware(cfg config.KassaConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Debug || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		referer := c.Request.Referer()
		if !strings.HasPrefix(referer, cfg.MoneyURL()) {
			logger.CtxWarn(c.Request.Context(), "finish request from unexpected referer", "referer", referer)
			c.Header("Allow", http.MethodPost)
			apperrors.HandleError(c, apperrors.ErrRefererNotAllowed)
			return
		}
		c.Next()
	}
}

package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError пишет AppError в JSON; неизвестные ошибки становятся InternalError.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if !h.Debug {
			appErr.Message = "Internal server error"
			appErr.Details = nil
		}
	}

	if appErr.HTTPCode >= 500 {
		slog.Error("server error", "error", appErr.Error())
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() != gin.ReleaseMode}
	handler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

package apperrors

import (
	"net/http"
)

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// --- Payments ---

// ErrInvalidTransition - переход состояния платежа запрещён текущим состоянием.
var ErrInvalidTransition = New(
	CodeInvalidTransition,
	"payment",
	"Payment state transition is not allowed",
	http.StatusConflict,
)

// InvalidTransition описывает конкретный запрещённый переход.
func InvalidTransition(from, to string) *AppError {
	return ErrInvalidTransition.WithDetails(map[string]string{"from": from, "to": to})
}

// --- Уведомления шлюза ---

// ErrSignatureInvalid - подпись md5 не совпала.
var ErrSignatureInvalid = New(
	CodeSignatureInvalid,
	"kassa",
	"MD5 is incorrect",
	http.StatusOK,
)

// ErrOrderUnknown - заказ не найден или не совпадает покупатель.
var ErrOrderUnknown = New(
	CodeOrderUnknown,
	"kassa",
	"No such order",
	http.StatusOK,
)

// ErrSumMismatch - сумма уведомления не совпадает с суммой заказа.
var ErrSumMismatch = New(
	CodeOrderUnknown,
	"kassa",
	"Sum doesn't match",
	http.StatusOK,
)

// ErrUnexpectedAction - action уведомления не соответствует эндпоинту.
// Переиспользует код "неизвестный заказ" - так отвечает шлюзу протокол.
var ErrUnexpectedAction = New(
	CodeOrderUnknown,
	"kassa",
	"unexpected parameter",
	http.StatusOK,
)

// ErrCannotProcess - уведомление не прошло структурную проверку.
var ErrCannotProcess = New(
	CodeInternalProcessing,
	"kassa",
	"Cannot process payment",
	http.StatusOK,
)

// ErrProcessingOrder - ошибка при выполнении обработчика уведомления.
var ErrProcessingOrder = New(
	CodeInternalProcessing,
	"kassa",
	"error processing order",
	http.StatusOK,
)

// --- Finish redirect ---

// ErrRefererNotAllowed - GET на страницу возврата пришёл не со шлюза.
var ErrRefererNotAllowed = New(
	CodeForbidden,
	"kassa",
	"Method not allowed",
	http.StatusMethodNotAllowed,
)

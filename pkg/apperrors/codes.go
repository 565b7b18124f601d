package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeForbidden        ErrorCode = "FORBIDDEN"

	// Протокол уведомлений платёжного шлюза.
	// Порядок приоритета при классификации: подпись > заказ > внутренняя.
	CodeSignatureInvalid   ErrorCode = "SIGNATURE_INVALID"
	CodeOrderUnknown       ErrorCode = "ORDER_UNKNOWN"
	CodeInternalProcessing ErrorCode = "INTERNAL_PROCESSING"
	CodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
)

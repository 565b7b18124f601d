package kassa

import (
	"kassa_backend/pkg/apperrors"
)

// Коды ответа шлюзу.
const (
	CodeSuccess          = 0
	CodeSignatureInvalid = 1
	CodeOrderUnknown     = 100
	CodeInternal         = 200
)

// WireCode переводит ошибку приложения в код ответа шлюзу.
func WireCode(err error) int {
	if err == nil {
		return CodeSuccess
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeSignatureInvalid:
		return CodeSignatureInvalid
	case apperrors.CodeOrderUnknown:
		return CodeOrderUnknown
	default:
		return CodeInternal
	}
}

// WireMessage - текст ошибки для ответа шлюзу.
func WireMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Code {
		case apperrors.CodeSignatureInvalid, apperrors.CodeOrderUnknown, apperrors.CodeInternalProcessing:
			return appErr.Message
		}
	}
	return apperrors.ErrProcessingOrder.Message
}

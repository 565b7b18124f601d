package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError содержит ошибки по полям: "поле" -> "сообщение".
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errMsgs := make([]string, 0, len(fields))
	for _, field := range fields {
		errMsgs = append(errMsgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(errMsgs, "; ")
}

// Has сообщает, есть ли ошибка по полю.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Errors[field]
	return ok
}

// Add добавляет ошибку поля (первая ошибка поля сохраняется).
func (e *ValidationError) Add(field, message string) {
	if e.Errors == nil {
		e.Errors = make(map[string]string)
	}
	if _, exists := e.Errors[field]; !exists {
		e.Errors[field] = message
	}
}

// Validator — обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New создает Validator с правилами протокола шлюза.
// paymentTypes - коды способов оплаты, которые принимает магазин.
func New(paymentTypes []string) *Validator {
	v := validator.New()

	// Имена полей в ошибках берём из тегов form/json - так их видит шлюз.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// decimal.Decimal валидируется как строка
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	registerCustomRules(v, paymentTypes)

	return &Validator{validate: v}
}

// Validate выполняет валидацию структуры.
// Если есть ошибки полей, возвращает *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	result := &ValidationError{Errors: make(map[string]string, len(validationErrors))}
	for _, fe := range validationErrors {
		result.Add(fe.Field(), v.getErrorMessage(fe))
	}
	return result
}

func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "Must be a valid UUID"
	case "kassa-int":
		if fe.Param() != "" {
			return fmt.Sprintf("Must be an integer not less than %s", fe.Param())
		}
		return "Must be an integer"
	case "kassa-money":
		return "Must be a non-negative amount with at most 2 decimal places"
	case "payment-type":
		return "Unknown or unsupported payment method"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}

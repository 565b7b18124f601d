package validator

import (
	"log"
	"strconv"
	"strings"

	"kassa_backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// registerCustomRules регистрирует правила для полей протокола шлюза.
func registerCustomRules(v *validator.Validate, paymentTypes []string) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'kassa-int' / 'kassa-int=N': целое число, не меньше N если задан параметр
	mustRegister("kassa-int", validateKassaInt)

	// 'kassa-money': сумма >= 0 не более чем с двумя знаками после запятой
	mustRegister("kassa-money", validateKassaMoney)

	// 'payment-type': способ оплаты из списка, принятого магазином (только при создании платежа)
	accepted := make(map[string]struct{}, len(paymentTypes))
	for _, t := range paymentTypes {
		accepted[strings.ToUpper(strings.TrimSpace(t))] = struct{}{}
	}
	mustRegister("payment-type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		if !models.PaymentType(value).IsKnown() {
			return false
		}
		_, ok := accepted[value]
		return ok
	})
}

func validateKassaInt(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	n, err := ParseInt(value)
	if err != nil {
		return false
	}
	if param := fl.Param(); param != "" {
		minValue, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			return false
		}
		return n >= minValue
	}
	return true
}

func validateKassaMoney(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	d, err := ParseMoney(value)
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Equal(d.Truncate(2))
}

// ParseInt разбирает целое из формы шлюза (пробелы по краям допустимы).
func ParseInt(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// ParseMoney разбирает сумму из формы шлюза.
func ParseMoney(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(value))
}

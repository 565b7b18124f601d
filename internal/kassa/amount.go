package kassa

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ten = decimal.NewFromInt(10)

// ParseAmount разбирает сумму из уведомления.
func ParseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// Round10 округляет сумму до десятков: amount/10 по банковскому правилу, затем *10.
func Round10(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(ten).RoundBank(0).Mul(ten)
}

// SumsMatch сравнивает суммы с точностью до десятков.
func SumsMatch(expected, declared decimal.Decimal) bool {
	return Round10(expected).Equal(Round10(declared))
}

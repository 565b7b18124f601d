package kassa

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// Signer считает и проверяет md5-подпись уведомлений шлюза.
//
// Порядок полей фиксирован протоколом:
// action;orderSumAmount;orderSumCurrencyPaycash;orderSumBankPaycash;shopId;invoiceId;customerNumber;shopPassword
type Signer struct {
	password string
}

func NewSigner(shopPassword string) *Signer {
	return &Signer{password: shopPassword}
}

// Sign возвращает подпись уведомления в верхнем регистре.
func (s *Signer) Sign(n *Notification) string {
	plain := strings.Join([]string{
		string(n.Action),
		strings.TrimSpace(n.RawOrderSum()),
		strconv.FormatInt(n.OrderSumCurrencyPaycash, 10),
		strconv.FormatInt(n.OrderSumBankPaycash, 10),
		strconv.FormatInt(n.ShopID, 10),
		strconv.FormatInt(n.InvoiceID, 10),
		n.CustomerNumber,
		s.password,
	}, ";")
	hash := md5.Sum([]byte(plain))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// Verify сравнивает подпись с md5 из уведомления. Сравнение регистрозависимое.
func (s *Signer) Verify(n *Notification) bool {
	return s.Sign(n) == n.MD5
}

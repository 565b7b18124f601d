package kassa

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

const (
	xmlDeclaration = "<?xml version='1.0' encoding='UTF-8'?>\n"

	// PerformedDatetimeLayout - формат performedDatetime (isoformat с микросекундами).
	PerformedDatetimeLayout = "2006-01-02T15:04:05.000000-07:00"

	ContentType = "application/xml"
)

// attrEscaper экранирует значение атрибута в двойных кавычках; апостроф остаётся как есть.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// Attr - атрибут ответа. Порядок атрибутов важен для шлюза.
type Attr struct {
	Name  string
	Value string
}

// Response - ответ на уведомление: один пустой элемент {action}Response с атрибутами.
type Response struct {
	Action Action
	Attrs  []Attr
}

// Success строит ответ code=0: performedDatetime, code, invoiceId, shopId.
func Success(action Action, performed time.Time, invoiceID string, shopID int64) *Response {
	return &Response{
		Action: action,
		Attrs: []Attr{
			{Name: "performedDatetime", Value: FormatPerformed(performed)},
			{Name: "code", Value: strconv.Itoa(CodeSuccess)},
			{Name: "invoiceId", Value: invoiceID},
			{Name: "shopId", Value: strconv.FormatInt(shopID, 10)},
		},
	}
}

// Failure строит ответ с ошибкой: code, message.
func Failure(action Action, err error) *Response {
	return &Response{
		Action: action,
		Attrs: []Attr{
			{Name: "code", Value: strconv.Itoa(WireCode(err))},
			{Name: "message", Value: WireMessage(err)},
		},
	}
}

// Code возвращает значение атрибута code.
func (r *Response) Code() string {
	for _, a := range r.Attrs {
		if a.Name == "code" {
			return a.Value
		}
	}
	return ""
}

// Bytes сериализует ответ.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	buf.WriteByte('<')
	buf.WriteString(r.Action.ResponseTag())
	for _, a := range r.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(attrEscaper.Replace(a.Value))
		buf.WriteByte('"')
	}
	buf.WriteString("/>")
	return buf.Bytes()
}

// FormatPerformed форматирует время для performedDatetime в UTC.
func FormatPerformed(t time.Time) string {
	return t.UTC().Format(PerformedDatetimeLayout)
}

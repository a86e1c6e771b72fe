package currencies

import (
	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// table is the static currency lookup used by the composer and renderer.
// Selection only ever swaps the code and symbol on an invoice; numeric
// fields are untouched by currency changes.
var table = []domain.Currency{
	{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar"},
	{CurrencyCode: "EUR", Symbol: "€", Name: "Euro"},
	{CurrencyCode: "GBP", Symbol: "£", Name: "British Pound"},
	{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{CurrencyCode: "ZAR", Symbol: "R", Name: "South African Rand"},
	{CurrencyCode: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{CurrencyCode: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{CurrencyCode: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
}

var byCode = func() map[string]domain.Currency {
	m := make(map[string]domain.Currency, len(table))
	for _, c := range table {
		m[c.CurrencyCode] = c
	}
	return m
}()

// Lookup returns the currency for a code and whether it is known.
func Lookup(code string) (domain.Currency, bool) {
	c, ok := byCode[code]
	return c, ok
}

// ResolveSymbol maps a currency code to its display symbol. Unknown codes
// fall back to the code itself, so resolution never fails.
func ResolveSymbol(code string) string {
	if c, ok := byCode[code]; ok {
		return c.Symbol
	}
	return code
}

// List returns the supported currencies in display order.
func List() []domain.Currency {
	out := make([]domain.Currency, len(table))
	copy(out, table)
	return out
}

// FormatAmount renders a monetary value as symbol + amount fixed to two
// decimal places. No locale-aware grouping is attempted.
func FormatAmount(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(2)
}

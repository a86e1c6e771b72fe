package currencies_test

import (
	"testing"

	"github.com/quickbill/quickbill_backend/internal/utils/currencies"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSymbol_KnownCodes(t *testing.T) {
	assert.Equal(t, "$", currencies.ResolveSymbol("USD"))
	assert.Equal(t, "€", currencies.ResolveSymbol("EUR"))
	assert.Equal(t, "£", currencies.ResolveSymbol("GBP"))
	assert.Equal(t, "¥", currencies.ResolveSymbol("JPY"))
}

func TestResolveSymbol_UnknownCodeFallsBackToCode(t *testing.T) {
	assert.Equal(t, "XYZ", currencies.ResolveSymbol("XYZ"))
	assert.Equal(t, "", currencies.ResolveSymbol(""))
}

func TestResolveSymbol_Idempotent(t *testing.T) {
	first := currencies.ResolveSymbol("EUR")
	second := currencies.ResolveSymbol("EUR")
	assert.Equal(t, first, second)

	first = currencies.ResolveSymbol("NOPE")
	second = currencies.ResolveSymbol("NOPE")
	assert.Equal(t, first, second)
}

func TestLookup(t *testing.T) {
	c, ok := currencies.Lookup("ZAR")
	require.True(t, ok)
	assert.Equal(t, "R", c.Symbol)
	assert.Equal(t, "South African Rand", c.Name)

	_, ok = currencies.Lookup("QQQ")
	assert.False(t, ok)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$100.00", currencies.FormatAmount(decimal.NewFromInt(100), "$"))
	assert.Equal(t, "€0.50", currencies.FormatAmount(decimal.RequireFromString("0.5"), "€"))
	// Rounded to two places at display time only.
	assert.Equal(t, "R12.35", currencies.FormatAmount(decimal.RequireFromString("12.345"), "R"))
	// Negative balances keep their sign.
	assert.Equal(t, "$-17.50", currencies.FormatAmount(decimal.RequireFromString("-17.5"), "$"))
}

func TestList_ReturnsCopy(t *testing.T) {
	list := currencies.List()
	require.NotEmpty(t, list)
	list[0].Symbol = "mutated"

	fresh := currencies.List()
	assert.NotEqual(t, "mutated", fresh[0].Symbol)
}

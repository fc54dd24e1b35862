package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidCurrency(t *testing.T) {
	for _, code := range []string{
		"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY", "NZD", "SEK",
		"NOK", "DKK", "SGD", "HKD", "INR", "KRW", "MXN", "BRL", "ZAR", "RUB",
	} {
		require.True(t, ValidCurrency(code), "catalog member %s rejected", code)
	}

	require.True(t, ValidCurrency("usd"), "lookup should be case-insensitive")
	require.True(t, ValidCurrency(" eur "), "lookup should trim whitespace")

	require.False(t, ValidCurrency(""))
	require.False(t, ValidCurrency("   "))
	require.False(t, ValidCurrency("XXX"))
	require.False(t, ValidCurrency("US"))
	require.False(t, ValidCurrency("USDT"))
}

func TestNormalizeCurrency(t *testing.T) {
	code, ok := NormalizeCurrency(" gbp ")
	require.True(t, ok)
	require.Equal(t, "GBP", code)

	_, ok = NormalizeCurrency("zzz")
	require.False(t, ok)
}

func TestCurrencyName(t *testing.T) {
	require.Equal(t, "US Dollar", CurrencyName("USD"))
	require.Empty(t, CurrencyName("XXX"))
}

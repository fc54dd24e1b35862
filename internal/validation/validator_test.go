package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpattn/fxdeals/internal/domain"
)

func validDeal() domain.Deal {
	return domain.Deal{
		DealID:       "DEAL1",
		FromCurrency: "USD",
		ToCurrency:   "EUR",
		DateTime:     "2024-01-15 10:30:00",
		Amount:       "100.00",
	}
}

func TestValidateAcceptsAndNormalizes(t *testing.T) {
	deal := validDeal()
	deal.FromCurrency = " usd "
	deal.ToCurrency = "eur"

	result := Validate(deal)
	require.True(t, result.Valid)
	require.Empty(t, result.Reason)
	require.Equal(t, "DEAL1", result.DealID)
	require.Equal(t, "USD", result.FromCurrency)
	require.Equal(t, "EUR", result.ToCurrency)
	require.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), result.DealTime)
	require.Equal(t, "100.00", result.Amount.StringFixed(2))
}

func TestValidateRuleOrderIsDeterministic(t *testing.T) {
	// A row missing both identity and source currency fails on the
	// identity rule; later rules are never consulted.
	deal := validDeal()
	deal.DealID = "  "
	deal.FromCurrency = ""

	result := Validate(deal)
	require.False(t, result.Valid)
	require.Equal(t, "identity missing or empty", result.Reason)
}

func TestValidateCurrencyRules(t *testing.T) {
	deal := validDeal()
	deal.FromCurrency = ""
	require.Equal(t, "source currency missing or empty", Validate(deal).Reason)

	deal = validDeal()
	deal.FromCurrency = "XXX"
	require.Equal(t, "invalid source currency code: XXX", Validate(deal).Reason)

	deal = validDeal()
	deal.ToCurrency = " "
	require.Equal(t, "target currency missing or empty", Validate(deal).Reason)

	deal = validDeal()
	deal.ToCurrency = "ABC"
	require.Equal(t, "invalid target currency code: ABC", Validate(deal).Reason)
}

func TestValidateTimestampRules(t *testing.T) {
	deal := validDeal()
	deal.DateTime = ""
	require.Equal(t, "timestamp missing or empty", Validate(deal).Reason)

	for _, bad := range []string{
		"2024-01-15",            // date only
		"15/01/2024 10:30:00",   // wrong order
		"2024-01-15T10:30:00",   // ISO separator
		"2024-01-15 10:30",      // missing seconds
		"2024-01-15 1:30:00",    // hour not zero-padded
		"2024-01-15 10:3:00",    // minute not zero-padded
		"2024-01-15 10:30:00.5", // trailing fractional seconds
	} {
		deal = validDeal()
		deal.DateTime = bad
		result := Validate(deal)
		require.False(t, result.Valid, "timestamp %q accepted", bad)
		require.Contains(t, result.Reason, "invalid date format", "timestamp %q", bad)
		require.Contains(t, result.Reason, bad)
	}
}

func TestValidateAmountRules(t *testing.T) {
	deal := validDeal()
	deal.Amount = ""
	require.Equal(t, "amount missing or empty", Validate(deal).Reason)

	deal = validDeal()
	deal.Amount = "12.3.4"
	require.Equal(t, "invalid amount format: 12.3.4", Validate(deal).Reason)

	for _, nonPositive := range []string{"0", "-5", "0.00"} {
		deal = validDeal()
		deal.Amount = nonPositive
		result := Validate(deal)
		require.False(t, result.Valid, "amount %q accepted", nonPositive)
		require.Contains(t, result.Reason, "greater than zero")
	}
}

func TestValidateAmountKeepsExactDecimal(t *testing.T) {
	deal := validDeal()
	deal.Amount = "1000.50"

	result := Validate(deal)
	require.True(t, result.Valid)
	require.Equal(t, "1000.50", result.Amount.StringFixed(2))

	// No binary-float rounding for values that float64 cannot hold.
	deal.Amount = "12345678901234567890.123456789"
	result = Validate(deal)
	require.True(t, result.Valid)
	require.Equal(t, "12345678901234567890.123456789", result.Amount.String())
}

package domain

import "strings"

// currencyNames is the closed set of currency codes the system accepts
// as deal legs. Membership is fixed at build time; there is no runtime
// extension point.
var currencyNames = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
	"AUD": "Australian Dollar",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"NZD": "New Zealand Dollar",
	"SEK": "Swedish Krona",
	"NOK": "Norwegian Krone",
	"DKK": "Danish Krone",
	"SGD": "Singapore Dollar",
	"HKD": "Hong Kong Dollar",
	"INR": "Indian Rupee",
	"KRW": "South Korean Won",
	"MXN": "Mexican Peso",
	"BRL": "Brazilian Real",
	"ZAR": "South African Rand",
	"RUB": "Russian Ruble",
}

// ValidCurrency reports whether code names a recognized currency.
// Matching is case-insensitive and ignores surrounding whitespace;
// blank input is never valid.
func ValidCurrency(code string) bool {
	_, ok := NormalizeCurrency(code)
	return ok
}

// NormalizeCurrency returns the canonical upper-case form of code and
// whether it is a member of the catalog.
func NormalizeCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	_, ok := currencyNames[code]
	return code, ok
}

// CurrencyName returns the descriptive name for a canonical code, or
// the empty string when the code is unknown.
func CurrencyName(code string) string {
	return currencyNames[code]
}

// Package validation checks a single parsed deal row against the
// structural and semantic rules of the ingestion format. Validation is
// pure: no I/O, no shared state, and in particular no duplicate-identity
// check, which needs the store and belongs to the pipeline.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpattn/fxdeals/internal/domain"
)

// DealTimeLayout is the only accepted timestamp format for deal rows.
const DealTimeLayout = "2006-01-02 15:04:05"

// Result is the outcome of validating one row. When Valid is true the
// Deal fields carry the normalized values (canonical currency codes,
// parsed timestamp, exact decimal amount); otherwise Reason explains
// the first rule that failed.
type Result struct {
	Valid        bool
	Reason       string
	DealID       string
	FromCurrency string
	ToCurrency   string
	DealTime     time.Time
	Amount       decimal.Decimal
}

func reject(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Validate applies the row rules in order; the first failure wins and
// the remaining rules are not evaluated.
func Validate(deal domain.Deal) Result {
	dealID := strings.TrimSpace(deal.DealID)
	if dealID == "" {
		return reject("identity missing or empty")
	}

	if strings.TrimSpace(deal.FromCurrency) == "" {
		return reject("source currency missing or empty")
	}
	fromCurrency, ok := domain.NormalizeCurrency(deal.FromCurrency)
	if !ok {
		return reject(fmt.Sprintf("invalid source currency code: %s", deal.FromCurrency))
	}

	if strings.TrimSpace(deal.ToCurrency) == "" {
		return reject("target currency missing or empty")
	}
	toCurrency, ok := domain.NormalizeCurrency(deal.ToCurrency)
	if !ok {
		return reject(fmt.Sprintf("invalid target currency code: %s", deal.ToCurrency))
	}

	rawTime := strings.TrimSpace(deal.DateTime)
	if rawTime == "" {
		return reject("timestamp missing or empty")
	}
	// time.Parse is lenient about field widths and trailing fractional
	// seconds; the round-trip check pins the input to the exact layout.
	dealTime, err := time.Parse(DealTimeLayout, rawTime)
	if err != nil || dealTime.Format(DealTimeLayout) != rawTime {
		return reject(fmt.Sprintf("invalid date format, expected YYYY-MM-DD HH:MM:SS, got: %s", deal.DateTime))
	}

	if strings.TrimSpace(deal.Amount) == "" {
		return reject("amount missing or empty")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(deal.Amount))
	if err != nil {
		return reject(fmt.Sprintf("invalid amount format: %s", deal.Amount))
	}
	if amount.Sign() <= 0 {
		return reject("amount must be greater than zero")
	}

	return Result{
		Valid:        true,
		DealID:       dealID,
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		DealTime:     dealTime,
		Amount:       amount,
	}
}

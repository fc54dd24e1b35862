package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deal is one raw row of an uploaded file, untouched apart from field
// trimming. LineNumber is 1-based within the data portion of the file
// (the header row is excluded).
type Deal struct {
	DealID       string
	FromCurrency string
	ToCurrency   string
	DateTime     string
	Amount       string
	RowData      string
	LineNumber   int
}

// AcceptedDeal is a row that passed validation and the duplicate check.
// DealID is unique across every accepted deal ever stored, not just
// within one file.
type AcceptedDeal struct {
	ID           uuid.UUID       `json:"id"`
	DealID       string          `json:"deal_id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	DealTime     time.Time       `json:"deal_time"`
	Amount       decimal.Decimal `json:"amount"`
	FileName     string          `json:"file_name"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewAcceptedDeal creates an accepted deal from normalized field values.
func NewAcceptedDeal(dealID, fromCurrency, toCurrency string, dealTime time.Time, amount decimal.Decimal, fileName string) AcceptedDeal {
	return AcceptedDeal{
		ID:           uuid.New(),
		DealID:       dealID,
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		DealTime:     dealTime,
		Amount:       amount,
		FileName:     fileName,
		CreatedAt:    time.Now(),
	}
}

// RejectedDeal is a row that failed a check. The raw textual fields are
// kept verbatim so the original input can be audited; no uniqueness
// constraint applies.
type RejectedDeal struct {
	ID           uuid.UUID `json:"id"`
	DealID       string    `json:"deal_id"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	DateTime     string    `json:"date_time"`
	Amount       string    `json:"amount"`
	Reason       string    `json:"reason"`
	RowData      string    `json:"row_data"`
	FileName     string    `json:"file_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRejectedDeal captures a raw row together with its rejection reason.
func NewRejectedDeal(deal Deal, fileName, reason string) RejectedDeal {
	return RejectedDeal{
		ID:           uuid.New(),
		DealID:       deal.DealID,
		FromCurrency: deal.FromCurrency,
		ToCurrency:   deal.ToCurrency,
		DateTime:     deal.DateTime,
		Amount:       deal.Amount,
		Reason:       reason,
		RowData:      deal.RowData,
		FileName:     fileName,
		CreatedAt:    time.Now(),
	}
}

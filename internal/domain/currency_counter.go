package domain

import "time"

// CurrencyCounter is the cumulative number of accepted deals ever
// observed with a given source currency, across all runs. The count
// only grows; nothing in the system resets or decrements it.
type CurrencyCounter struct {
	Currency  string    `json:"currency"`
	DealCount int64     `json:"deal_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Package summary serves read-only views over finished ingestion runs
// and the cumulative per-currency deal counters.
package summary

import (
	"context"
	"fmt"

	"github.com/rpattn/fxdeals/internal/domain"
	"github.com/rpattn/fxdeals/internal/repository"
)

// Service answers reporting queries from the persisted state.
type Service struct {
	deals repository.DealRepository
	runs  repository.IngestionRunRepository
}

// NewService creates a new summary service.
func NewService(deals repository.DealRepository, runs repository.IngestionRunRepository) *Service {
	return &Service{deals: deals, runs: runs}
}

// RunSummary is the per-file report shown after an import.
type RunSummary struct {
	FileName     string  `json:"fileName"`
	Status       string  `json:"status"`
	ValidCount   int64   `json:"validCount"`
	InvalidCount int64   `json:"invalidCount"`
	DurationMs   *int64  `json:"durationMs,omitempty"`
	StartedAt    string  `json:"startedAt"`
	CompletedAt  *string `json:"completedAt,omitempty"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
}

const timestampLayout = "2006-01-02 15:04:05"

// RunSummary loads the run for fileName; errors.Is ErrRunNotFound when
// the file was never imported.
func (s *Service) RunSummary(ctx context.Context, fileName string) (RunSummary, error) {
	run, err := s.runs.FindByFileName(ctx, fileName)
	if err != nil {
		return RunSummary{}, err
	}

	out := RunSummary{
		FileName:     run.FileName,
		Status:       string(run.Status),
		DurationMs:   run.DurationMs,
		StartedAt:    run.StartedAt.Format(timestampLayout),
		ErrorMessage: run.ErrorMessage,
	}
	if run.ValidCount != nil {
		out.ValidCount = *run.ValidCount
	}
	if run.InvalidCount != nil {
		out.InvalidCount = *run.InvalidCount
	}
	if run.CompletedAt != nil {
		completed := run.CompletedAt.Format(timestampLayout)
		out.CompletedAt = &completed
	}
	return out, nil
}

// CounterView pairs a counter with the catalog's descriptive name.
type CounterView struct {
	Currency  string `json:"currency"`
	Name      string `json:"name"`
	DealCount int64  `json:"dealCount"`
}

// Counters lists every currency counter created so far.
func (s *Service) Counters(ctx context.Context) ([]CounterView, error) {
	counters, err := s.deals.ListCounters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load counters: %w", err)
	}

	views := make([]CounterView, len(counters))
	for i, counter := range counters {
		views[i] = CounterView{
			Currency:  counter.Currency,
			Name:      domain.CurrencyName(counter.Currency),
			DealCount: counter.DealCount,
		}
	}
	return views, nil
}

// Package ingestion runs uploaded deal files through admission,
// row-by-row processing, counter reconciliation, and run closure.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/rpattn/fxdeals/internal/domain"
	"github.com/rpattn/fxdeals/internal/repository"
	"github.com/rpattn/fxdeals/internal/validation"
)

// Service orchestrates one ingestion run per uploaded file. Rows are
// processed strictly in order: a later row may be rejected as a
// duplicate of an earlier row in the same file once that row is saved.
type Service struct {
	deals repository.DealRepository
	runs  repository.IngestionRunRepository
}

// NewService creates a new ingestion service.
func NewService(deals repository.DealRepository, runs repository.IngestionRunRepository) *Service {
	return &Service{deals: deals, runs: runs}
}

// Request describes the ingestion input.
type Request struct {
	FileName string
	Data     io.Reader
}

// Summary is the terminal view of a run handed back to the caller.
type Summary struct {
	FileName     string     `json:"fileName"`
	Status       string     `json:"status"`
	ValidCount   int64      `json:"validCount"`
	InvalidCount int64      `json:"invalidCount"`
	DurationMs   *int64     `json:"durationMs,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
}

// Ingest processes one uploaded file end to end. A duplicate file name
// is rejected before anything is read (errors.Is ErrDuplicateFile).
// Once a run is admitted, any unrecoverable failure marks it FAILED and
// is returned to the caller; row-level failures never abort the run,
// they become rejected rows. There is no rollback: every row that can
// be read ends up saved as either an accepted or a rejected deal, and
// counter increments applied before a failure stay applied.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return Summary{}, errors.New("file name is required")
	}
	if req.Data == nil {
		return Summary{}, errors.New("data reader is required")
	}

	run, err := s.runs.Admit(ctx, fileName)
	if err != nil {
		return Summary{}, err
	}
	log.Printf("[INGEST] admitted file %s (run %s)", fileName, run.ID)

	if err := s.process(ctx, fileName, req.Data); err != nil {
		log.Printf("[INGEST] failing run for %s: %v", fileName, err)
		if failErr := s.runs.Fail(ctx, fileName, err.Error()); failErr != nil {
			log.Printf("[INGEST] could not mark run failed for %s: %v", fileName, failErr)
		}
		return s.summarize(ctx, fileName, err)
	}

	return s.summarize(ctx, fileName, nil)
}

func (s *Service) process(ctx context.Context, fileName string, data io.Reader) error {
	payload, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return fmt.Errorf("file is empty: %s", fileName)
	}

	rows, err := parseTable(fileName, payload)
	if err != nil {
		return err
	}

	for i, row := range rows {
		deal := rowToDeal(row, i+1)
		if err := s.processRow(ctx, fileName, deal); err != nil {
			return err
		}
	}
	log.Printf("[INGEST] streamed %d rows from %s", len(rows), fileName)

	if err := s.reconcileCounters(ctx, fileName); err != nil {
		return err
	}

	validCount, err := s.deals.CountAcceptedByFile(ctx, fileName)
	if err != nil {
		return fmt.Errorf("failed to count accepted deals: %w", err)
	}
	invalidCount, err := s.deals.CountRejectedByFile(ctx, fileName)
	if err != nil {
		return fmt.Errorf("failed to count rejected deals: %w", err)
	}

	if err := s.runs.Complete(ctx, fileName, validCount, invalidCount); err != nil {
		return err
	}
	log.Printf("[INGEST] completed %s: valid=%d invalid=%d", fileName, validCount, invalidCount)
	return nil
}

// processRow assigns the row exactly one durable outcome. The duplicate
// probe runs before validation, so a duplicate id wins over any other
// defect the row may have.
func (s *Service) processRow(ctx context.Context, fileName string, deal domain.Deal) error {
	exists, err := s.deals.ExistsByDealID(ctx, deal.DealID)
	if err != nil {
		return fmt.Errorf("failed to probe deal id on line %d: %w", deal.LineNumber, err)
	}
	if exists {
		reason := fmt.Sprintf("deal id already exists: %s", deal.DealID)
		log.Printf("[INGEST] line %d of %s rejected: %s", deal.LineNumber, fileName, reason)
		return s.saveRejected(ctx, fileName, deal, reason)
	}

	result := validation.Validate(deal)
	if !result.Valid {
		log.Printf("[INGEST] line %d of %s rejected: %s", deal.LineNumber, fileName, result.Reason)
		return s.saveRejected(ctx, fileName, deal, result.Reason)
	}

	accepted := domain.NewAcceptedDeal(
		result.DealID,
		result.FromCurrency,
		result.ToCurrency,
		result.DealTime,
		result.Amount,
		fileName,
	)
	if err := s.deals.SaveAccepted(ctx, accepted); err != nil {
		// The probe is only an optimization; the unique constraint is
		// the source of truth. A lost race degrades to a rejected row
		// rather than aborting the run.
		reason := fmt.Sprintf("error processing deal: %s", err.Error())
		log.Printf("[INGEST] line %d of %s rejected after save failure: %v", deal.LineNumber, fileName, err)
		return s.saveRejected(ctx, fileName, deal, reason)
	}
	return nil
}

func (s *Service) saveRejected(ctx context.Context, fileName string, deal domain.Deal, reason string) error {
	rejected := domain.NewRejectedDeal(deal, fileName, reason)
	if err := s.deals.SaveRejected(ctx, rejected); err != nil {
		return fmt.Errorf("failed to save rejected deal on line %d: %w", deal.LineNumber, err)
	}
	return nil
}

// reconcileCounters merges this run's accepted deals into the global
// per-currency counters, one atomic increment per distinct source
// currency. Increments are not rolled back if the run later fails;
// that partial effect is a stated contract of the pipeline.
func (s *Service) reconcileCounters(ctx context.Context, fileName string) error {
	deals, err := s.deals.ListAcceptedByFile(ctx, fileName)
	if err != nil {
		return fmt.Errorf("failed to list accepted deals: %w", err)
	}
	if len(deals) == 0 {
		return nil
	}

	counts := make(map[string]int64)
	for _, deal := range deals {
		counts[deal.FromCurrency]++
	}

	currencies := make([]string, 0, len(counts))
	for currency := range counts {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	for _, currency := range currencies {
		if err := s.deals.IncrementCounter(ctx, currency, counts[currency]); err != nil {
			return err
		}
		log.Printf("[INGEST] counter %s += %d from %s", currency, counts[currency], fileName)
	}
	return nil
}

// summarize returns the stored terminal run, paired with processErr
// when the run failed.
func (s *Service) summarize(ctx context.Context, fileName string, processErr error) (Summary, error) {
	run, err := s.runs.FindByFileName(ctx, fileName)
	if err != nil {
		if processErr != nil {
			return Summary{}, processErr
		}
		return Summary{}, err
	}

	summary := Summary{
		FileName:     run.FileName,
		Status:       string(run.Status),
		DurationMs:   run.DurationMs,
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		ErrorMessage: run.ErrorMessage,
	}
	if run.ValidCount != nil {
		summary.ValidCount = *run.ValidCount
	}
	if run.InvalidCount != nil {
		summary.InvalidCount = *run.InvalidCount
	}
	return summary, processErr
}

func rowToDeal(row []string, lineNumber int) domain.Deal {
	rowData := strings.Join(row, ",")
	fields := padRow(row, 5)
	return domain.Deal{
		DealID:       fields[0],
		FromCurrency: fields[1],
		ToCurrency:   fields[2],
		DateTime:     fields[3],
		Amount:       fields[4],
		RowData:      rowData,
		LineNumber:   lineNumber,
	}
}

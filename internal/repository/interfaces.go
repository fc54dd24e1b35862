package repository

import (
	"context"
	"errors"

	"github.com/rpattn/fxdeals/internal/domain"
)

var (
	// ErrDuplicateDeal is returned when saving an accepted deal whose
	// deal id is already present in the accepted collection.
	ErrDuplicateDeal = errors.New("deal id already exists")

	// ErrDuplicateFile is returned when admitting a file name that
	// already has a run, in any status.
	ErrDuplicateFile = errors.New("file already imported")

	// ErrRunNotFound is returned when no run exists for a file name.
	ErrRunNotFound = errors.New("ingestion run not found")

	// ErrRunFinalized is returned when completing or failing a run
	// that is already in a terminal state.
	ErrRunFinalized = errors.New("ingestion run already finalized")

	// ErrCounterNotFound is returned when no counter row exists for a
	// currency code.
	ErrCounterNotFound = errors.New("currency counter not found")
)

// DealRepository persists deal outcomes and per-currency counters. All
// writes are durable before the call returns.
type DealRepository interface {
	// ExistsByDealID probes the global accepted-deal uniqueness set.
	ExistsByDealID(ctx context.Context, dealID string) (bool, error)
	// SaveAccepted stores an accepted deal; ErrDuplicateDeal when the
	// deal id lost a race against another insert.
	SaveAccepted(ctx context.Context, deal domain.AcceptedDeal) error
	// SaveRejected stores a rejected row; no uniqueness constraint.
	SaveRejected(ctx context.Context, deal domain.RejectedDeal) error
	CountAcceptedByFile(ctx context.Context, fileName string) (int64, error)
	CountRejectedByFile(ctx context.Context, fileName string) (int64, error)
	ListAcceptedByFile(ctx context.Context, fileName string) ([]domain.AcceptedDeal, error)
	GetCounter(ctx context.Context, currency string) (domain.CurrencyCounter, error)
	ListCounters(ctx context.Context) ([]domain.CurrencyCounter, error)
	// IncrementCounter adds delta to the counter for currency as a
	// single atomic statement, creating the counter at delta when
	// absent. Concurrent increments for the same currency must not
	// lose updates.
	IncrementCounter(ctx context.Context, currency string, delta int64) error
}

// IngestionRunRepository tracks the lifecycle of one run per file name.
type IngestionRunRepository interface {
	// Admit creates a RUNNING run for fileName; ErrDuplicateFile when
	// any run already exists for that name.
	Admit(ctx context.Context, fileName string) (domain.IngestionRun, error)
	// Complete transitions the run to COMPLETED with its final counts.
	Complete(ctx context.Context, fileName string, validCount, invalidCount int64) error
	// Fail transitions the run to FAILED with an error message.
	Fail(ctx context.Context, fileName string, message string) error
	FindByFileName(ctx context.Context, fileName string) (domain.IngestionRun, error)
	ExistsByFileName(ctx context.Context, fileName string) (bool, error)
}

package summary

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpattn/fxdeals/internal/domain"
	"github.com/rpattn/fxdeals/internal/repository"
)

type stubRuns struct {
	run domain.IngestionRun
	err error
}

func (s *stubRuns) Admit(context.Context, string) (domain.IngestionRun, error) {
	return domain.IngestionRun{}, errors.New("not implemented")
}

func (s *stubRuns) Complete(context.Context, string, int64, int64) error {
	return errors.New("not implemented")
}

func (s *stubRuns) Fail(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (s *stubRuns) FindByFileName(context.Context, string) (domain.IngestionRun, error) {
	return s.run, s.err
}

func (s *stubRuns) ExistsByFileName(context.Context, string) (bool, error) {
	return s.err == nil, nil
}

type stubDeals struct {
	counters []domain.CurrencyCounter
	err      error
}

func (s *stubDeals) ExistsByDealID(context.Context, string) (bool, error) { return false, nil }
func (s *stubDeals) SaveAccepted(context.Context, domain.AcceptedDeal) error {
	return errors.New("not implemented")
}
func (s *stubDeals) SaveRejected(context.Context, domain.RejectedDeal) error {
	return errors.New("not implemented")
}
func (s *stubDeals) CountAcceptedByFile(context.Context, string) (int64, error) { return 0, nil }
func (s *stubDeals) CountRejectedByFile(context.Context, string) (int64, error) { return 0, nil }
func (s *stubDeals) ListAcceptedByFile(context.Context, string) ([]domain.AcceptedDeal, error) {
	return nil, nil
}
func (s *stubDeals) GetCounter(context.Context, string) (domain.CurrencyCounter, error) {
	return domain.CurrencyCounter{}, repository.ErrCounterNotFound
}
func (s *stubDeals) ListCounters(context.Context) ([]domain.CurrencyCounter, error) {
	return s.counters, s.err
}
func (s *stubDeals) IncrementCounter(context.Context, string, int64) error {
	return errors.New("not implemented")
}

func TestRunSummaryMapsCompletedRun(t *testing.T) {
	valid := int64(10)
	invalid := int64(3)
	duration := int64(128)
	completed := time.Date(2024, 1, 15, 10, 30, 2, 0, time.UTC)
	message := "boom"

	runs := &stubRuns{run: domain.IngestionRun{
		FileName:     "deals.csv",
		Status:       domain.RunStatusCompleted,
		ValidCount:   &valid,
		InvalidCount: &invalid,
		DurationMs:   &duration,
		StartedAt:    time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		CompletedAt:  &completed,
		ErrorMessage: &message,
	}}

	service := NewService(&stubDeals{}, runs)
	out, err := service.RunSummary(context.Background(), "deals.csv")
	require.NoError(t, err)

	require.Equal(t, "deals.csv", out.FileName)
	require.Equal(t, "COMPLETED", out.Status)
	require.Equal(t, int64(10), out.ValidCount)
	require.Equal(t, int64(3), out.InvalidCount)
	require.Equal(t, "2024-01-15 10:30:00", out.StartedAt)
	require.NotNil(t, out.CompletedAt)
	require.Equal(t, "2024-01-15 10:30:02", *out.CompletedAt)
	require.NotNil(t, out.DurationMs)
	require.Equal(t, int64(128), *out.DurationMs)
}

func TestRunSummaryRunningRunHasZeroCounts(t *testing.T) {
	runs := &stubRuns{run: domain.IngestionRun{
		FileName:  "inflight.csv",
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}}

	service := NewService(&stubDeals{}, runs)
	out, err := service.RunSummary(context.Background(), "inflight.csv")
	require.NoError(t, err)
	require.Equal(t, int64(0), out.ValidCount)
	require.Equal(t, int64(0), out.InvalidCount)
	require.Nil(t, out.CompletedAt)
}

func TestRunSummaryUnknownFile(t *testing.T) {
	runs := &stubRuns{err: fmt.Errorf("%w: nope.csv", repository.ErrRunNotFound)}
	service := NewService(&stubDeals{}, runs)

	_, err := service.RunSummary(context.Background(), "nope.csv")
	require.ErrorIs(t, err, repository.ErrRunNotFound)
}

func TestCountersIncludeCatalogNames(t *testing.T) {
	deals := &stubDeals{counters: []domain.CurrencyCounter{
		{Currency: "EUR", DealCount: 2},
		{Currency: "USD", DealCount: 5},
	}}
	service := NewService(deals, &stubRuns{})

	views, err := service.Counters(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "Euro", views[0].Name)
	require.Equal(t, "US Dollar", views[1].Name)
	require.Equal(t, int64(5), views[1].DealCount)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/fxdeals/internal/domain"
)

const uniqueViolation = "23505"

type dealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository wires a deal repository backed by pgxpool.
func NewDealRepository(pool *pgxpool.Pool) DealRepository {
	return &dealRepository{pool: pool}
}

func (r *dealRepository) ExistsByDealID(ctx context.Context, dealID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM accepted_deals WHERE deal_id = $1)`,
		dealID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe deal id: %w", err)
	}
	return exists, nil
}

func (r *dealRepository) SaveAccepted(ctx context.Context, deal domain.AcceptedDeal) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO accepted_deals (id, deal_id, from_currency, to_currency, deal_time, amount, file_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		deal.ID,
		deal.DealID,
		deal.FromCurrency,
		deal.ToCurrency,
		deal.DealTime,
		deal.Amount,
		deal.FileName,
		deal.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateDeal, deal.DealID)
		}
		return fmt.Errorf("failed to save accepted deal: %w", err)
	}
	return nil
}

func (r *dealRepository) SaveRejected(ctx context.Context, deal domain.RejectedDeal) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO rejected_deals (id, deal_id, from_currency, to_currency, date_time, amount, reason, row_data, file_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		deal.ID,
		deal.DealID,
		deal.FromCurrency,
		deal.ToCurrency,
		deal.DateTime,
		deal.Amount,
		deal.Reason,
		deal.RowData,
		deal.FileName,
		deal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save rejected deal: %w", err)
	}
	return nil
}

func (r *dealRepository) CountAcceptedByFile(ctx context.Context, fileName string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM accepted_deals WHERE file_name = $1`,
		fileName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted deals: %w", err)
	}
	return count, nil
}

func (r *dealRepository) CountRejectedByFile(ctx context.Context, fileName string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM rejected_deals WHERE file_name = $1`,
		fileName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rejected deals: %w", err)
	}
	return count, nil
}

func (r *dealRepository) ListAcceptedByFile(ctx context.Context, fileName string) ([]domain.AcceptedDeal, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, deal_id, from_currency, to_currency, deal_time, amount, file_name, created_at
		 FROM accepted_deals
		 WHERE file_name = $1
		 ORDER BY created_at`,
		fileName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted deals: %w", err)
	}
	defer rows.Close()

	deals := []domain.AcceptedDeal{}
	for rows.Next() {
		var (
			deal      domain.AcceptedDeal
			dealTime  pgtype.Timestamp
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&deal.ID,
			&deal.DealID,
			&deal.FromCurrency,
			&deal.ToCurrency,
			&dealTime,
			&deal.Amount,
			&deal.FileName,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan accepted deal: %w", scanErr)
		}
		deal.DealTime = dealTime.Time
		deal.CreatedAt = createdAt.Time
		deals = append(deals, deal)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate accepted deals: %w", rowsErr)
	}

	return deals, nil
}

func (r *dealRepository) GetCounter(ctx context.Context, currency string) (domain.CurrencyCounter, error) {
	var (
		counter   domain.CurrencyCounter
		updatedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(
		ctx,
		`SELECT currency, deal_count, updated_at FROM currency_counters WHERE currency = $1`,
		currency,
	).Scan(&counter.Currency, &counter.DealCount, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CurrencyCounter{}, fmt.Errorf("%w: %s", ErrCounterNotFound, currency)
		}
		return domain.CurrencyCounter{}, fmt.Errorf("failed to get counter: %w", err)
	}
	counter.UpdatedAt = updatedAt.Time
	return counter, nil
}

func (r *dealRepository) ListCounters(ctx context.Context) ([]domain.CurrencyCounter, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT currency, deal_count, updated_at FROM currency_counters ORDER BY currency`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}
	defer rows.Close()

	counters := []domain.CurrencyCounter{}
	for rows.Next() {
		var (
			counter   domain.CurrencyCounter
			updatedAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(&counter.Currency, &counter.DealCount, &updatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan counter: %w", scanErr)
		}
		counter.UpdatedAt = updatedAt.Time
		counters = append(counters, counter)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate counters: %w", rowsErr)
	}

	return counters, nil
}

// IncrementCounter relies on the currency primary key to resolve races:
// the upsert executes as one statement, so two runs touching the same
// currency at the same time both land their deltas.
func (r *dealRepository) IncrementCounter(ctx context.Context, currency string, delta int64) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO currency_counters (currency, deal_count, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (currency)
		 DO UPDATE SET deal_count = currency_counters.deal_count + EXCLUDED.deal_count, updated_at = now()`,
		currency,
		delta,
	)
	if err != nil {
		return fmt.Errorf("failed to increment counter for %s: %w", currency, err)
	}
	return nil
}

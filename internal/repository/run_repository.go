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

type ingestionRunRepository struct {
	pool *pgxpool.Pool
}

// NewIngestionRunRepository wires a run repository backed by pgxpool.
func NewIngestionRunRepository(pool *pgxpool.Pool) IngestionRunRepository {
	return &ingestionRunRepository{pool: pool}
}

func (r *ingestionRunRepository) Admit(ctx context.Context, fileName string) (domain.IngestionRun, error) {
	run := domain.NewIngestionRun(fileName)
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO ingestion_runs (id, file_name, status, started_at)
		 VALUES ($1, $2, $3, $4)`,
		run.ID,
		run.FileName,
		string(run.Status),
		run.StartedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.IngestionRun{}, fmt.Errorf("%w: %s", ErrDuplicateFile, fileName)
		}
		return domain.IngestionRun{}, fmt.Errorf("failed to admit file: %w", err)
	}
	return run, nil
}

// Complete transitions the run to COMPLETED. The status guard lives in
// the WHERE clause so the transition check and the write are one
// statement; a finalized run matches no row.
func (r *ingestionRunRepository) Complete(ctx context.Context, fileName string, validCount, invalidCount int64) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE ingestion_runs
		 SET status = $2,
		     valid_count = $3,
		     invalid_count = $4,
		     completed_at = now(),
		     duration_ms = (EXTRACT(EPOCH FROM (now() - started_at)) * 1000)::bigint
		 WHERE file_name = $1 AND status = $5`,
		fileName,
		string(domain.RunStatusCompleted),
		validCount,
		invalidCount,
		string(domain.RunStatusRunning),
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, fileName)
	}
	return nil
}

func (r *ingestionRunRepository) Fail(ctx context.Context, fileName string, message string) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE ingestion_runs
		 SET status = $2,
		     error_message = $3,
		     completed_at = now(),
		     duration_ms = (EXTRACT(EPOCH FROM (now() - started_at)) * 1000)::bigint
		 WHERE file_name = $1 AND status = $4`,
		fileName,
		string(domain.RunStatusFailed),
		message,
		string(domain.RunStatusRunning),
	)
	if err != nil {
		return fmt.Errorf("failed to fail run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, fileName)
	}
	return nil
}

func (r *ingestionRunRepository) transitionError(ctx context.Context, fileName string) error {
	exists, err := r.ExistsByFileName(ctx, fileName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrRunNotFound, fileName)
	}
	return fmt.Errorf("%w: %s", ErrRunFinalized, fileName)
}

func (r *ingestionRunRepository) FindByFileName(ctx context.Context, fileName string) (domain.IngestionRun, error) {
	var (
		run          domain.IngestionRun
		status       string
		validCount   pgtype.Int8
		invalidCount pgtype.Int8
		durationMs   pgtype.Int8
		startedAt    pgtype.Timestamptz
		completedAt  pgtype.Timestamptz
		errorMessage pgtype.Text
	)
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, file_name, status, valid_count, invalid_count, duration_ms, started_at, completed_at, error_message
		 FROM ingestion_runs
		 WHERE file_name = $1`,
		fileName,
	).Scan(
		&run.ID,
		&run.FileName,
		&status,
		&validCount,
		&invalidCount,
		&durationMs,
		&startedAt,
		&completedAt,
		&errorMessage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.IngestionRun{}, fmt.Errorf("%w: %s", ErrRunNotFound, fileName)
		}
		return domain.IngestionRun{}, fmt.Errorf("failed to find run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.StartedAt = startedAt.Time
	if validCount.Valid {
		run.ValidCount = &validCount.Int64
	}
	if invalidCount.Valid {
		run.InvalidCount = &invalidCount.Int64
	}
	if durationMs.Valid {
		run.DurationMs = &durationMs.Int64
	}
	if completedAt.Valid {
		completed := completedAt.Time
		run.CompletedAt = &completed
	}
	if errorMessage.Valid {
		message := errorMessage.String
		run.ErrorMessage = &message
	}
	return run, nil
}

func (r *ingestionRunRepository) ExistsByFileName(ctx context.Context, fileName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM ingestion_runs WHERE file_name = $1)`,
		fileName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe run existence: %w", err)
	}
	return exists, nil
}

package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/history"
)

// PgxPool is the subset of *pgxpool.Pool the postgres store needs.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	pgCreateHistory = `CREATE TABLE IF NOT EXISTS followup_history (
	position    INTEGER          NOT NULL,
	report_text TEXT             NOT NULL,
	task_name   TEXT             NOT NULL,
	trade       TEXT             NOT NULL,
	headcount   INTEGER          NOT NULL,
	hours       DOUBLE PRECISION NOT NULL,
	priority    TEXT             NOT NULL,
	PRIMARY KEY (report_text, task_name)
)`
	pgSelectHistory = `SELECT report_text, task_name, trade, headcount, hours, priority FROM followup_history ORDER BY position`
	pgDeleteHistory = `DELETE FROM followup_history`
	pgInsertHistory = `INSERT INTO followup_history (position, report_text, task_name, trade, headcount, hours, priority) VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

// PostgresStore keeps history in the followup_history table.
type PostgresStore struct {
	pool   PgxPool
	logger *slog.Logger
}

var _ history.Store = (*PostgresStore)(nil)

func NewPostgresStore(pool PgxPool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

// EnsureSchema creates the history table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, pgCreateHistory); err != nil {
		return fmt.Errorf("postgres: create history table: %w", err)
	}
	return nil
}

type pgQueryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PostgresStore) Load(ctx context.Context) ([]entity.HistoricalRecord, error) {
	return loadPostgres(ctx, s.pool)
}

func loadPostgres(ctx context.Context, q pgQueryer) ([]entity.HistoricalRecord, error) {
	rows, err := q.Query(ctx, pgSelectHistory)
	if err != nil {
		return nil, fmt.Errorf("postgres: load history: %w", err)
	}
	defer rows.Close()

	out := []entity.HistoricalRecord{}
	for rows.Next() {
		var (
			rec       entity.HistoricalRecord
			headcount int32
			priority  string
		)
		if err := rows.Scan(&rec.ReportText, &rec.TaskName, &rec.Trade, &headcount, &rec.Hours, &priority); err != nil {
			return nil, fmt.Errorf("postgres: scan history: %w", err)
		}
		rec.Headcount = int(headcount)
		rec.Priority = entity.Priority(priority)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate history: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Save(ctx context.Context, records []entity.HistoricalRecord) ([]entity.HistoricalRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}

	merged, err := s.rewrite(ctx, tx, records)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Warn("history.postgres.rollback_failed", "error", rbErr)
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres: commit: %w", err)
	}

	s.logger.Info("history.postgres.saved", "incoming", len(records), "total", len(merged))
	return merged, nil
}

func (s *PostgresStore) rewrite(ctx context.Context, tx pgx.Tx, records []entity.HistoricalRecord) ([]entity.HistoricalRecord, error) {
	existing, err := loadPostgres(ctx, tx)
	if err != nil {
		return nil, err
	}
	merged := history.Merge(existing, records)

	if _, err := tx.Exec(ctx, pgDeleteHistory); err != nil {
		return nil, fmt.Errorf("postgres: clear history: %w", err)
	}
	for i, r := range merged {
		if _, err := tx.Exec(ctx, pgInsertHistory, int32(i), r.ReportText, r.TaskName, r.Trade, int32(r.Headcount), r.Hours, string(r.Priority)); err != nil {
			return nil, fmt.Errorf("postgres: insert history row %d: %w", i, err)
		}
	}
	return merged, nil
}

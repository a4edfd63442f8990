package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/history"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS followup_history (
	position    INTEGER NOT NULL,
	report_text TEXT    NOT NULL,
	task_name   TEXT    NOT NULL,
	trade       TEXT    NOT NULL,
	headcount   INTEGER NOT NULL,
	hours       REAL    NOT NULL,
	priority    TEXT    NOT NULL,
	PRIMARY KEY (report_text, task_name)
);
CREATE INDEX IF NOT EXISTS idx_followup_history_position ON followup_history(position);
`

// SQLiteStore keeps history in a single SQLite table ordered by position.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ history.Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	logger.Info("history.sqlite.opened", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context) ([]entity.HistoricalRecord, error) {
	return s.query(ctx, s.db)
}

type sqlQueryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLiteStore) query(ctx context.Context, q sqlQueryer) ([]entity.HistoricalRecord, error) {
	const stmt = `SELECT report_text, task_name, trade, headcount, hours, priority
FROM followup_history ORDER BY position`

	rows, err := q.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.HistoricalRecord{}
	for rows.Next() {
		var (
			rec      entity.HistoricalRecord
			priority string
		)
		if err := rows.Scan(&rec.ReportText, &rec.TaskName, &rec.Trade, &rec.Headcount, &rec.Hours, &priority); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}
		rec.Priority = entity.Priority(priority)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate history: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Save(ctx context.Context, records []entity.HistoricalRecord) ([]entity.HistoricalRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}

	existing, err := s.query(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	merged := history.Merge(existing, records)

	if _, err := tx.ExecContext(ctx, `DELETE FROM followup_history`); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("sqlite: clear history: %w", err)
	}
	const insert = `INSERT INTO followup_history
(position, report_text, task_name, trade, headcount, hours, priority)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, r := range merged {
		if _, err := tx.ExecContext(ctx, insert, i, r.ReportText, r.TaskName, r.Trade, r.Headcount, r.Hours, string(r.Priority)); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("sqlite: insert history row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}

	s.logger.Info("history.sqlite.saved", "incoming", len(records), "total", len(merged))
	return merged, nil
}

package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/history"
)

// OpenHistoryStore builds the history store selected by cfg.History.Backend.
// The returned close func releases the backend's resources and is never nil.
func OpenHistoryStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (history.Store, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() {}

	switch cfg.History.Backend {
	case common.BackendCSV, "":
		return NewCSVStore(cfg.History.Path, logger), noop, nil

	case common.BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.History.Path, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("close sqlite history", "error", err)
			}
		}, nil

	case common.BackendPostgres:
		pool, err := Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, err
		}
		s := NewPostgresStore(pool, logger)
		if err := s.EnsureSchema(ctx); err != nil {
			Close(pool, logger)
			return nil, noop, err
		}
		return s, func() { Close(pool, logger) }, nil

	default:
		return nil, noop, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("unknown history backend %q", cfg.History.Backend), common.ErrInvalidInput)
	}
}

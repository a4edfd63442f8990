package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/followups-tracker/internal/common"
)

func TestOpenHistoryStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := &common.Config{History: common.HistoryConfig{Backend: common.BackendCSV, Path: filepath.Join(dir, "h.csv")}}
	s, closeFn, err := OpenHistoryStore(ctx, cfg, nil)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &CSVStore{}, s)

	cfg.History = common.HistoryConfig{Backend: common.BackendSQLite, Path: filepath.Join(dir, "h.sqlite")}
	s, closeFn, err = OpenHistoryStore(ctx, cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	closeFn()

	cfg.History = common.HistoryConfig{Backend: "mongo"}
	_, closeFn, err = OpenHistoryStore(ctx, cfg, nil)
	require.Error(t, err)
	assert.NotNil(t, closeFn)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

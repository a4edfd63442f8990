package repository

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
)

var historyCols = []string{"report_text", "task_name", "trade", "headcount", "hours", "priority"}

func TestPostgresStoreLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM followup_history ORDER BY position").
		WillReturnRows(pgxmock.NewRows(historyCols).
			AddRow("a", "Leckortung", "Leckortung", int32(2), 1.5, "Hoch").
			AddRow("b", "Terminabstimmung", "Organisation", int32(1), 0.5, "Normal"))

	s := NewPostgresStore(mock, slog.Default())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.PriorityHigh, got[0].Priority)
	assert.Equal(t, 1, got[1].Headcount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveRewritesInTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM followup_history").
		WillReturnRows(pgxmock.NewRows(historyCols).
			AddRow("a", "Leckortung", "Heizung", int32(2), 1.5, "Normal").
			AddRow("b", "Bautrocknung", "Heizung", int32(1), 2.0, "Normal"))
	mock.ExpectExec("DELETE FROM followup_history").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("INSERT INTO followup_history").
		WithArgs(int32(0), "b", "Bautrocknung", "Heizung", int32(1), 2.0, "Normal").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO followup_history").
		WithArgs(int32(1), "a", "Leckortung", "Heizung", int32(4), 3.0, "Normal").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	s := NewPostgresStore(mock, nil)
	got, err := s.Save(context.Background(), []entity.HistoricalRecord{rec("a", "Leckortung", 4, 3)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ReportText)
	assert.Equal(t, 4, got[1].Headcount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveRollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM followup_history").
		WillReturnRows(pgxmock.NewRows(historyCols))
	mock.ExpectExec("DELETE FROM followup_history").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewPostgresStore(mock, nil)
	_, err = s.Save(context.Background(), []entity.HistoricalRecord{rec("a", "Leckortung", 1, 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear history")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS followup_history").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, NewPostgresStore(mock, nil).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	require.NoError(t, HealthCheck(context.Background(), mock, 0, slog.Default()))
	require.Error(t, HealthCheck(context.Background(), mock, 0, slog.Default()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"HISTORY_BACKEND", "HISTORY_PATH", "HISTORY_SIMILARITY_THRESHOLD", "GRPC_ADDR", "PIPELINE_WORKERS", "TESSERACT_LANG"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, BackendCSV, cfg.History.Backend)
	assert.Equal(t, "berichte_historie.csv", cfg.History.Path)
	assert.Equal(t, 0.7, cfg.History.SimilarityThreshold)
	assert.Equal(t, "deu", cfg.OCR.TesseractLang)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "postgres")
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("DB_DIAL_TIMEOUT", "9s")
	t.Setenv("HISTORY_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("PIPELINE_WORKERS", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, BackendPostgres, cfg.History.Backend)
	assert.Equal(t, int32(7), cfg.Database.MaxConns)
	assert.Equal(t, 9*time.Second, cfg.Database.DialTimeout)
	assert.Equal(t, 0.85, cfg.History.SimilarityThreshold)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		t.Setenv("HISTORY_BACKEND", "")
		return LoadConfig()
	}

	cfg := base()
	cfg.History.Backend = "mongo"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)

	cfg = base()
	cfg.History.Backend = BackendPostgres
	cfg.Database.DSN = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)

	cfg = base()
	cfg.History.SimilarityThreshold = 1.5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Pipeline.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestAppError(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "bad", ErrInvalidInput)
	assert.Equal(t, "CONFIG_ERROR: bad: invalid input", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToStatus(t *testing.T) {
	assert.Nil(t, ToStatus(nil))
	assert.Equal(t, codes.InvalidArgument, status.Code(ToStatus(fmt.Errorf("save: %w", ErrValidation))))
	assert.Equal(t, codes.InvalidArgument, status.Code(ToStatus(ErrUnsupportedFormat)))
	assert.Equal(t, codes.NotFound, status.Code(ToStatus(ErrNotFound)))
	assert.Equal(t, codes.Internal, status.Code(ToStatus(errors.New("boom"))))
	already := status.Error(codes.Unavailable, "down")
	assert.Equal(t, codes.Unavailable, status.Code(ToStatus(already)))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("task_name", "", Required).
		Field("trade", "Bäcker", Required, KnownTrade).
		Field("headcount", 0, MinInt(1)).
		Field("hours", -1.0, Positive).
		Field("note", "kurz", MaxLength(10))
	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 4)
	assert.ErrorIs(t, v.Error(), ErrValidation)
	assert.Equal(t, codes.InvalidArgument, status.Code(ValidateAndReturnError(v)))

	ok := NewValidator().
		Field("trade", "sanitaer", KnownTrade).
		Field("headcount", 2, MinInt(1)).
		Field("hours", 1.5, Positive)
	assert.False(t, ok.HasErrors())
	assert.NoError(t, ok.Error())
}

func TestPositiveRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -2} {
		assert.NotNil(t, Positive("hours", f), "%v", f)
	}
	assert.Nil(t, Positive("hours", 0.5))
}

func TestContextValues(t *testing.T) {
	ctx := WithRunID(WithRequestID(context.Background(), "req-1"), "run-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
	assert.Empty(t, RunIDFromContext(context.Background()))

	c, cancel := WithTimeout(ctx, 0)
	defer cancel()
	_, has := c.Deadline()
	assert.False(t, has)
}

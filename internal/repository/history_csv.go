package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/history"
	"github.com/joseph-ayodele/followups-tracker/internal/utils"
)

// Column names of the persisted history layout.
const (
	ColReport    = "Bericht"
	ColTask      = "Arbeit"
	ColTrade     = "Gewerk"
	ColHeadcount = "Personen"
	ColHours     = "Stunden"
	ColPriority  = "Priorität"
)

// HistoryColumns is the header written by CSVStore, in order.
var HistoryColumns = []string{ColReport, ColTask, ColTrade, ColHeadcount, ColHours, ColPriority}

// CSVStore keeps history in a single CSV file. Extra columns in an existing
// file are ignored on read and dropped on the next save.
type CSVStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ history.Store = (*CSVStore)(nil)

func NewCSVStore(path string, logger *slog.Logger) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{path: path, logger: logger}
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Load(ctx context.Context) ([]entity.HistoricalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *CSVStore) load(_ context.Context) ([]entity.HistoricalRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("history.csv.missing", "path", s.path)
		return []entity.HistoricalRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			s.logger.Warn("close history file", "path", s.path, "error", err)
		}
	}(f)

	recs, err := ReadHistoryCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}
	return recs, nil
}

func (s *CSVStore) Save(ctx context.Context, records []entity.HistoricalRecord) ([]entity.HistoricalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	merged := history.Merge(existing, records)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create temp history: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := WriteHistoryCSV(tmp, merged); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return nil, fmt.Errorf("replace history: %w", err)
	}

	s.logger.Info("history.csv.saved",
		"path", s.path,
		"incoming", len(records),
		"total", len(merged),
	)
	return merged, nil
}

// ReadHistoryCSV parses the history layout. Columns are located by header name.
func ReadHistoryCSV(r io.Reader) ([]entity.HistoricalRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []entity.HistoricalRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range HistoryColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	out := []entity.HistoricalRecord{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		raw := func(col string) string {
			if i := idx[col]; i < len(row) {
				return row[i]
			}
			return ""
		}
		get := func(col string) string { return strings.TrimSpace(raw(col)) }

		rec := entity.HistoricalRecord{
			ReportText: raw(ColReport),
			TaskName:   get(ColTask),
			Trade:      get(ColTrade),
		}
		// pandas may have written integral counts as floats ("2.0")
		headcount, err := utils.ParseDecimal(get(ColHeadcount))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColHeadcount, err)
		}
		rec.Headcount = int(headcount)
		if rec.Hours, err = utils.ParseDecimal(get(ColHours)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColHours, err)
		}
		p, ok := entity.ParsePriority(get(ColPriority))
		if !ok {
			return nil, fmt.Errorf("line %d: %s: unknown value %q", line, ColPriority, get(ColPriority))
		}
		rec.Priority = p
		out = append(out, rec)
	}
	return out, nil
}

// WriteHistoryCSV writes records with the HistoryColumns header.
func WriteHistoryCSV(w io.Writer, records []entity.HistoricalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ReportText,
			r.TaskName,
			r.Trade,
			strconv.Itoa(r.Headcount),
			utils.FormatDecimal(r.Hours),
			string(r.Priority),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

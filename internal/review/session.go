// Package review holds the operator's working set between classification and
// saving: the proposed records, manual additions, edits and the selection.
package review

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/normalize"
)

// Row is one record in the session. New rows start selected.
type Row struct {
	Record   entity.TaskRecord
	Selected bool
}

// ManualEntry is a task typed in by the operator.
type ManualEntry struct {
	ReportText string
	TaskName   string
	Trade      string
	Headcount  int
	Hours      float64
}

// Edit changes the given fields of a row; nil fields are left alone.
type Edit struct {
	TaskName  *string
	Trade     *string
	Headcount *int
	Hours     *float64
}

type Session struct {
	ID uuid.UUID

	mu   sync.RWMutex
	rows []Row
}

func NewSession(records ...entity.TaskRecord) *Session {
	s := &Session{ID: uuid.New()}
	s.Add(records...)
	return s
}

// Add appends classified records, selected.
func (s *Session) Add(records ...entity.TaskRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.rows = append(s.rows, Row{Record: r, Selected: true})
	}
}

// AddManual validates e and appends it as a selected, non-rule-matched record.
// The report text is normalized like classified text so both share history keys.
// It returns the new row's index.
func (s *Session) AddManual(e ManualEntry) (int, error) {
	v := common.NewValidator().
		Field("report_text", e.ReportText, common.Required).
		Field("task_name", e.TaskName, common.Required, common.MaxLength(200)).
		Field("trade", e.Trade, common.Required, common.KnownTrade).
		Field("headcount", e.Headcount, common.MinInt(1)).
		Field("hours", e.Hours, common.Positive)
	if err := v.Error(); err != nil {
		return -1, err
	}

	trade, _ := constants.CanonicalizeTrade(e.Trade)
	hours, headcount := entity.ClampEffort(e.Hours, e.Headcount)
	rec := entity.TaskRecord{
		ReportText: normalize.Normalize(e.ReportText),
		TaskName:   e.TaskName,
		Trade:      string(trade),
		Headcount:  headcount,
		Hours:      hours,
		Priority:   entity.PriorityFor(e.TaskName),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Row{Record: rec, Selected: true})
	return len(s.rows) - 1, nil
}

// Edit applies e to row i. Priority follows the task name.
func (s *Session) Edit(i int, e Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	rec := s.rows[i].Record

	v := common.NewValidator()
	if e.TaskName != nil {
		v.Field("task_name", *e.TaskName, common.Required, common.MaxLength(200))
	}
	if e.Trade != nil {
		v.Field("trade", *e.Trade, common.Required, common.KnownTrade)
	}
	if e.Headcount != nil {
		v.Field("headcount", *e.Headcount, common.MinInt(1))
	}
	if e.Hours != nil {
		v.Field("hours", *e.Hours, common.Positive)
	}
	if err := v.Error(); err != nil {
		return err
	}

	if e.TaskName != nil {
		rec.TaskName = *e.TaskName
		rec.Priority = entity.PriorityFor(rec.TaskName)
	}
	if e.Trade != nil {
		trade, _ := constants.CanonicalizeTrade(*e.Trade)
		rec.Trade = string(trade)
	}
	if e.Headcount != nil {
		rec.Headcount = *e.Headcount
	}
	if e.Hours != nil {
		rec.Hours = *e.Hours
	}
	rec.Hours, rec.Headcount = entity.ClampEffort(rec.Hours, rec.Headcount)
	s.rows[i].Record = rec
	return nil
}

func (s *Session) SetSelected(i int, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.rows[i].Selected = selected
	return nil
}

// SelectAll sets every row's selection.
func (s *Session) SelectAll(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		s.rows[i].Selected = selected
	}
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Rows returns a copy of all rows.
func (s *Session) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Row(nil), s.rows...)
}

// Selected returns the selected records in row order.
func (s *Session) Selected() []entity.TaskRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.TaskRecord, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Selected {
			out = append(out, r.Record)
		}
	}
	return out
}

// HistoryRecords returns the selected records ready for the history store.
func (s *Session) HistoryRecords() []entity.HistoricalRecord {
	sel := s.Selected()
	out := make([]entity.HistoricalRecord, len(sel))
	for i, r := range sel {
		out[i] = r.ToHistorical()
	}
	return out
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: row %d of %d", common.ErrNotFound, i, len(s.rows))
	}
	return nil
}

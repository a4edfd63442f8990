package review

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/normalize"
)

func proposed() []entity.TaskRecord {
	return []entity.TaskRecord{
		{ReportText: "r", TaskName: "Rohrbruch reparieren", Trade: "Sanitär", Headcount: 2, Hours: 5, Priority: entity.PriorityHigh, IsRuleMatched: true},
		{ReportText: "r", TaskName: "Trocknung", Trade: "Bautrocknung", Headcount: 1, Hours: 1, Priority: entity.PriorityNormal, IsRuleMatched: true},
	}
}

func TestSessionDefaultsToSelected(t *testing.T) {
	s := NewSession(proposed()...)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", s.ID.String())
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Selected(), 2)

	require.NoError(t, s.SetSelected(1, false))
	sel := s.Selected()
	require.Len(t, sel, 1)
	assert.Equal(t, "Rohrbruch reparieren", sel[0].TaskName)

	s.SelectAll(false)
	assert.Empty(t, s.Selected())
	assert.Empty(t, s.HistoryRecords())
}

func TestSessionAddManual(t *testing.T) {
	s := NewSession()

	i, err := s.AddManual(ManualEntry{
		ReportText: "Wasserfleck an der Decke",
		TaskName:   "Leckortung Decke",
		Trade:      "sanitaer",
		Headcount:  1,
		Hours:      0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	rows := s.Rows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Selected)
	rec := rows[0].Record
	assert.Equal(t, "wasserfleck an der decke", rec.ReportText)
	assert.Equal(t, "Sanitär", rec.Trade)
	assert.Equal(t, 1.0, rec.Hours, "hours are clamped")
	assert.Equal(t, entity.PriorityHigh, rec.Priority)
	assert.False(t, rec.IsRuleMatched)
	assert.False(t, rec.UsedHistoryFallback)
}

func TestSessionAddManualSharesHistoryKeyWithClassifiedText(t *testing.T) {
	raw := "Heizkörber riss, 2 Monteure, 3h Arbeit"
	s := NewSession(entity.TaskRecord{ReportText: normalize.Normalize(raw), TaskName: "Heizkörper erneuern", Trade: "Heizung", Headcount: 2, Hours: 3})

	_, err := s.AddManual(ManualEntry{ReportText: raw, TaskName: "Heizkörper erneuern", Trade: "Heizung", Headcount: 2, Hours: 4})
	require.NoError(t, err)

	recs := s.HistoryRecords()
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].Key(), recs[1].Key())
	assert.Equal(t, "heizkörper riss, 2 monteure, 3.0h arbeit", recs[1].ReportText)
}

func TestSessionAddManualValidation(t *testing.T) {
	s := NewSession()
	_, err := s.AddManual(ManualEntry{ReportText: "x", TaskName: " ", Trade: "Bäcker", Headcount: 0, Hours: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	for _, field := range []string{"task_name", "trade", "headcount", "hours"} {
		assert.Contains(t, err.Error(), field)
	}
	assert.Equal(t, 0, s.Len())
}

func TestSessionEdit(t *testing.T) {
	s := NewSession(proposed()...)

	name := "Trocknung Keller"
	hc := 3
	hours := 0.25
	require.NoError(t, s.Edit(1, Edit{TaskName: &name, Headcount: &hc, Hours: &hours}))

	rec := s.Rows()[1].Record
	assert.Equal(t, "Trocknung Keller", rec.TaskName)
	assert.Equal(t, 3, rec.Headcount)
	assert.Equal(t, 1.0, rec.Hours)
	assert.Equal(t, entity.PriorityNormal, rec.Priority)

	leck := "Leckortung"
	require.NoError(t, s.Edit(1, Edit{TaskName: &leck}))
	assert.Equal(t, entity.PriorityHigh, s.Rows()[1].Record.Priority)

	bad := "Zauberer"
	err := s.Edit(0, Edit{Trade: &bad})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Sanitär", s.Rows()[0].Record.Trade)

	require.ErrorIs(t, s.Edit(5, Edit{}), common.ErrNotFound)
	require.ErrorIs(t, s.SetSelected(-1, true), common.ErrNotFound)
}

func TestSessionHistoryRecords(t *testing.T) {
	s := NewSession(proposed()...)
	require.NoError(t, s.SetSelected(0, false))

	got := s.HistoryRecords()
	require.Len(t, got, 1)
	assert.Equal(t, entity.HistoricalRecord{
		ReportText: "r",
		TaskName:   "Trocknung",
		Trade:      "Bautrocknung",
		Headcount:  1,
		Hours:      1,
		Priority:   entity.PriorityNormal,
	}, got[0])
}

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
)

func TestFindSimilarEmptyHistory(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	_, ok := m.FindSimilar("Rohrbruch im Keller", nil)
	assert.False(t, ok)
}

func TestFindSimilarBelowThreshold(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	hist := []entity.HistoricalRecord{
		{ReportText: "Elektroverteilung komplett neu verdrahtet", Hours: 8, Headcount: 2},
		{ReportText: "Fliesen im Bad gesprungen", Hours: 3, Headcount: 1},
	}
	_, ok := m.FindSimilar("Rohrbruch im Keller", hist)
	assert.False(t, ok)
}

func TestFindSimilarAverages(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	hist := []entity.HistoricalRecord{
		{ReportText: "Rohrbruch im Keller", TaskName: "Rohrbruch reparieren", Hours: 4, Headcount: 1},
		{ReportText: "ROHRBRUCH IM KELLER!", TaskName: "Rohrbruch reparieren", Hours: 6, Headcount: 2},
		{ReportText: "Maler bestellen", TaskName: "Malerarbeiten", Hours: 2, Headcount: 1},
	}
	est, ok := m.FindSimilar("rohrbruch im keller", hist)
	require.True(t, ok)
	assert.Equal(t, 5.0, est.Hours)
	assert.Equal(t, 2, est.Headcount)
	assert.Equal(t, 2, est.Matches)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("Heizkörper", "HEIZKÖRPER"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
	// SequenceMatcher: 2*M/T with M=3 ("abc"), T=7
	assert.InDelta(t, 6.0/7.0, Ratio("abcd", "abc"), 1e-9)
}

func TestNewMatcherThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewMatcher(0).Threshold())
	assert.Equal(t, DefaultThreshold, NewMatcher(1.5).Threshold())
	assert.Equal(t, 0.9, NewMatcher(0.9).Threshold())
}

func TestMerge(t *testing.T) {
	existing := []entity.HistoricalRecord{
		{ReportText: "A", TaskName: "x", Hours: 1},
		{ReportText: "B", TaskName: "y", Hours: 2},
	}
	incoming := []entity.HistoricalRecord{
		{ReportText: "C", TaskName: "z", Hours: 3},
		{ReportText: "A", TaskName: "x", Hours: 9},
		{ReportText: "A", TaskName: "w", Hours: 4},
	}
	got := Merge(existing, incoming)
	require.Len(t, got, 4)
	assert.Equal(t, "B", got[0].ReportText)
	assert.Equal(t, "C", got[1].ReportText)
	assert.Equal(t, entity.HistoryKey{ReportText: "A", TaskName: "x"}, got[2].Key())
	assert.Equal(t, 9.0, got[2].Hours)
	assert.Equal(t, "w", got[3].TaskName)
}

func TestMergeDuplicatesWithinIncoming(t *testing.T) {
	incoming := []entity.HistoricalRecord{
		{ReportText: "A", TaskName: "x", Hours: 1},
		{ReportText: "A", TaskName: "x", Hours: 2},
	}
	got := Merge(nil, incoming)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Hours)
}

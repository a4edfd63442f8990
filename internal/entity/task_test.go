package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name string
		want Priority
	}{
		{"Rohrbruch reparieren", PriorityHigh},
		{"Leckortung", PriorityHigh},
		{"Heizkörper erneuern", PriorityNormal},
		{"rohrbruch klein geschrieben", PriorityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityFor(tt.name))
			assert.Equal(t, tt.want == PriorityHigh, TaskRule{Name: tt.name}.IsHighPriority())
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("High")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	p, ok = ParsePriority(" hoch ")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	p, ok = ParsePriority("")
	assert.True(t, ok)
	assert.Equal(t, PriorityNormal, p)

	_, ok = ParsePriority("dringend")
	assert.False(t, ok)
}

func TestClampEffort(t *testing.T) {
	h, n := ClampEffort(0.25, 0)
	assert.Equal(t, 1.0, h)
	assert.Equal(t, 1, n)

	h, n = ClampEffort(3.5, 4)
	assert.Equal(t, 3.5, h)
	assert.Equal(t, 4, n)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		h, _ = ClampEffort(bad, 2)
		assert.Equal(t, 1.0, h, "%v", bad)
	}
}

func TestTaskRecordToHistorical(t *testing.T) {
	rec := TaskRecord{
		ReportText:          "Rohrbruch im Keller",
		TaskName:            "Rohrbruch reparieren",
		Trade:               "Sanitär",
		Headcount:           2,
		Hours:               5,
		Priority:            PriorityHigh,
		IsRuleMatched:       true,
		UsedHistoryFallback: true,
	}
	h := rec.ToHistorical()
	assert.Equal(t, rec.Key(), h.Key())
	assert.Equal(t, 2, h.Headcount)
	assert.Equal(t, 5.0, h.Hours)
	assert.Equal(t, PriorityHigh, h.Priority)
}

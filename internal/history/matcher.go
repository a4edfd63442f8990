// Package history estimates effort from previously accepted task records.
package history

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
)

// DefaultThreshold is the minimum similarity ratio for a record to count.
const DefaultThreshold = 0.7

// Estimate is the averaged effort of similar historical reports.
type Estimate struct {
	Hours     float64
	Headcount int
	Matches   int
}

// Matcher finds historical reports similar to a new one.
type Matcher struct {
	threshold float64
}

// NewMatcher returns a matcher; thresholds outside (0,1] fall back to DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

func (m *Matcher) Threshold() float64 { return m.threshold }

// FindSimilar averages hours and headcount over every record whose report text
// is at least threshold-similar to text. ok is false when nothing qualifies.
// Cost is O(len(history) * len(text)); history is expected to stay small.
func (m *Matcher) FindSimilar(text string, history []entity.HistoricalRecord) (Estimate, bool) {
	if len(history) == 0 {
		return Estimate{}, false
	}
	a := runes(strings.ToLower(text))
	var sumHours float64
	var sumHeadcount, n int
	for _, rec := range history {
		if Similarity(a, runes(strings.ToLower(rec.ReportText))) < m.threshold {
			continue
		}
		sumHours += rec.Hours
		sumHeadcount += rec.Headcount
		n++
	}
	if n == 0 {
		return Estimate{}, false
	}
	return Estimate{
		Hours:     sumHours / float64(n),
		Headcount: int(math.Round(float64(sumHeadcount) / float64(n))),
		Matches:   n,
	}, true
}

// Similarity is the SequenceMatcher ratio of two rune sequences, in [0,1].
func Similarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	return difflib.NewMatcher(a, b).Ratio()
}

// Ratio compares two strings case-insensitively.
func Ratio(a, b string) float64 {
	return Similarity(runes(strings.ToLower(a)), runes(strings.ToLower(b)))
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

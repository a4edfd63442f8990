package history

import "github.com/joseph-ayodele/followups-tracker/internal/entity"

// Merge appends incoming to existing and keeps only the last record per
// (report text, task name). Survivors stay in the order of their last occurrence.
func Merge(existing, incoming []entity.HistoricalRecord) []entity.HistoricalRecord {
	all := make([]entity.HistoricalRecord, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)

	lastIdx := make(map[entity.HistoryKey]int, len(all))
	for i, rec := range all {
		lastIdx[rec.Key()] = i
	}
	out := make([]entity.HistoricalRecord, 0, len(lastIdx))
	for i, rec := range all {
		if lastIdx[rec.Key()] == i {
			out = append(out, rec)
		}
	}
	return out
}

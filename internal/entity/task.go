package entity

import (
	"math"
	"strings"
)

// Priority of a follow-up task. Values are stored verbatim in history files.
type Priority string

const (
	PriorityHigh   Priority = "Hoch"
	PriorityNormal Priority = "Normal"
)

// ParsePriority accepts the stored values as well as their English names.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hoch", "high":
		return PriorityHigh, true
	case "normal", "":
		return PriorityNormal, true
	}
	return "", false
}

// TaskRule is one entry of the standard-task catalogue.
type TaskRule struct {
	Name             string  `json:"name"`
	Trade            string  `json:"trade"`
	DefaultHours     float64 `json:"default_hours"`
	DefaultHeadcount int     `json:"default_headcount"`
	MatchPattern     string  `json:"match_pattern"`
}

// IsHighPriority is true for leak and burst-pipe work.
func (r TaskRule) IsHighPriority() bool {
	return IsHighPriorityTask(r.Name)
}

// IsHighPriorityTask reports whether a task name marks urgent work.
func IsHighPriorityTask(name string) bool {
	return strings.Contains(name, "Rohrbruch") || strings.Contains(name, "Leckortung")
}

// PriorityFor returns the priority derived from a task name.
func PriorityFor(name string) Priority {
	if IsHighPriorityTask(name) {
		return PriorityHigh
	}
	return PriorityNormal
}

// TaskRecord is a follow-up task derived from one report.
type TaskRecord struct {
	ReportText          string   `json:"report_text"`
	TaskName            string   `json:"task_name"`
	Trade               string   `json:"trade"`
	Headcount           int      `json:"headcount"`
	Hours               float64  `json:"hours"`
	Priority            Priority `json:"priority"`
	IsRuleMatched       bool     `json:"is_rule_matched"`
	UsedHistoryFallback bool     `json:"used_history_fallback"`
}

// Key identifies the record in history.
func (r TaskRecord) Key() HistoryKey {
	return HistoryKey{ReportText: r.ReportText, TaskName: r.TaskName}
}

// ToHistorical drops the classification flags.
func (r TaskRecord) ToHistorical() HistoricalRecord {
	return HistoricalRecord{
		ReportText: r.ReportText,
		TaskName:   r.TaskName,
		Trade:      r.Trade,
		Headcount:  r.Headcount,
		Hours:      r.Hours,
		Priority:   r.Priority,
	}
}

// HistoricalRecord is an accepted task record as persisted in history.
type HistoricalRecord struct {
	ReportText string   `json:"report_text"`
	TaskName   string   `json:"task_name"`
	Trade      string   `json:"trade"`
	Headcount  int      `json:"headcount"`
	Hours      float64  `json:"hours"`
	Priority   Priority `json:"priority"`
}

func (r HistoricalRecord) Key() HistoryKey {
	return HistoryKey{ReportText: r.ReportText, TaskName: r.TaskName}
}

// HistoryKey is the deduplication key of the history store.
type HistoryKey struct {
	ReportText string
	TaskName   string
}

// ClampEffort enforces the lower bounds every record must satisfy. Non-finite
// hours are treated as missing and clamp to the minimum.
func ClampEffort(hours float64, headcount int) (float64, int) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 1.0 {
		hours = 1.0
	}
	if headcount < 1 {
		headcount = 1
	}
	return hours, headcount
}

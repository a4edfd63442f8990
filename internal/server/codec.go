package server

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/review"
)

// Field names of record documents on the wire.
const (
	fieldReportText  = "report_text"
	fieldTaskName    = "task_name"
	fieldTrade       = "trade"
	fieldHeadcount   = "headcount"
	fieldHours       = "hours"
	fieldPriority    = "priority"
	fieldRuleMatched = "is_rule_matched"
	fieldHistoryUsed = "used_history_fallback"
	fieldSelected    = "selected"
	fieldRecords     = "records"
)

func taskRecordValue(r entity.TaskRecord, selected bool) map[string]any {
	return map[string]any{
		fieldReportText:  r.ReportText,
		fieldTaskName:    r.TaskName,
		fieldTrade:       r.Trade,
		fieldHeadcount:   r.Headcount,
		fieldHours:       r.Hours,
		fieldPriority:    string(r.Priority),
		fieldRuleMatched: r.IsRuleMatched,
		fieldHistoryUsed: r.UsedHistoryFallback,
		fieldSelected:    selected,
	}
}

func historicalValue(r entity.HistoricalRecord) map[string]any {
	return map[string]any{
		fieldReportText: r.ReportText,
		fieldTaskName:   r.TaskName,
		fieldTrade:      r.Trade,
		fieldHeadcount:  r.Headcount,
		fieldHours:      r.Hours,
		fieldPriority:   string(r.Priority),
	}
}

func listOf[T any](items []T, conv func(T) map[string]any) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = conv(it)
	}
	return out
}

func stringList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// rowsFromRequest decodes req.records into review rows. Records without an
// explicit "selected" flag are selected.
func rowsFromRequest(req *structpb.Struct) ([]review.Row, error) {
	list := req.GetFields()[fieldRecords].GetListValue().GetValues()
	rows := make([]review.Row, 0, len(list))
	for i, v := range list {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("%w: records[%d] must be an object", common.ErrInvalidInput, i)
		}
		rec, err := recordFromStruct(s)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		selected := true
		if sv, ok := s.GetFields()[fieldSelected]; ok {
			selected = sv.GetBoolValue()
		}
		rows = append(rows, review.Row{Record: rec, Selected: selected})
	}
	return rows, nil
}

func recordFromStruct(s *structpb.Struct) (entity.TaskRecord, error) {
	f := s.GetFields()
	headcount, err := intField(f, fieldHeadcount)
	if err != nil {
		return entity.TaskRecord{}, err
	}
	rec := entity.TaskRecord{
		ReportText:          f[fieldReportText].GetStringValue(),
		TaskName:            f[fieldTaskName].GetStringValue(),
		Trade:               f[fieldTrade].GetStringValue(),
		Headcount:           headcount,
		Hours:               f[fieldHours].GetNumberValue(),
		IsRuleMatched:       f[fieldRuleMatched].GetBoolValue(),
		UsedHistoryFallback: f[fieldHistoryUsed].GetBoolValue(),
	}

	v := common.NewValidator().
		Field(fieldReportText, rec.ReportText, common.Required).
		Field(fieldTaskName, rec.TaskName, common.Required).
		Field(fieldTrade, rec.Trade, common.Required).
		Field(fieldHeadcount, rec.Headcount, common.MinInt(1)).
		Field(fieldHours, rec.Hours, common.Positive)
	if err := v.Error(); err != nil {
		return entity.TaskRecord{}, err
	}

	rec.Priority = entity.PriorityFor(rec.TaskName)
	if raw := f[fieldPriority].GetStringValue(); raw != "" {
		p, ok := entity.ParsePriority(raw)
		if !ok {
			return entity.TaskRecord{}, fmt.Errorf("%w: unknown priority %q", common.ErrInvalidInput, raw)
		}
		rec.Priority = p
	}
	rec.Hours, rec.Headcount = entity.ClampEffort(rec.Hours, rec.Headcount)
	return rec, nil
}

func intField(f map[string]*structpb.Value, name string) (int, error) {
	n := f[name].GetNumberValue()
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a whole number", common.ErrInvalidInput, name)
	}
	return int(n), nil
}

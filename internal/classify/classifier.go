// Package classify matches report text against the standard-task catalogue and
// resolves effort for every matched task.
package classify

import (
	"log/slog"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/features"
	"github.com/joseph-ayodele/followups-tracker/internal/history"
)

// Classifier is safe for concurrent use; it holds only read-only state.
type Classifier struct {
	catalogue *Catalogue
	matcher   *history.Matcher
	logger    *slog.Logger
}

func NewClassifier(catalogue *Catalogue, matcher *history.Matcher, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if catalogue == nil {
		catalogue = DefaultCatalogue()
	}
	if matcher == nil {
		matcher = history.NewMatcher(history.DefaultThreshold)
	}
	return &Classifier{catalogue: catalogue, matcher: matcher, logger: logger}
}

func (c *Classifier) Catalogue() *Catalogue { return c.catalogue }

// Classify returns one record per matching rule, in catalogue order. An empty
// result means the report needs manual entry.
//
// Effort resolution per field: value in text, then history average, then rule
// default. Text and history are only consulted when allowHistoryFallback is set.
func (c *Classifier) Classify(text string, hist []entity.HistoricalRecord, allowHistoryFallback bool) []entity.TaskRecord {
	var signals features.Signals
	if allowHistoryFallback {
		signals = features.Extract(text)
	}

	var (
		estimate    history.Estimate
		hasEstimate bool
		looked      bool
	)
	lookup := func() (history.Estimate, bool) {
		if !looked {
			estimate, hasEstimate = c.matcher.FindSimilar(text, hist)
			looked = true
		}
		return estimate, hasEstimate
	}

	var records []entity.TaskRecord
	for _, rule := range c.catalogue.rules {
		if !rule.re.MatchString(text) {
			continue
		}

		hours, hasHours := signals.Hours, signals.HasHours
		headcount, hasHeadcount := signals.Headcount, signals.HasHeadcount
		usedHistory := false

		if allowHistoryFallback && (!hasHours || !hasHeadcount) {
			if est, ok := lookup(); ok {
				if !hasHours {
					hours, hasHours = est.Hours, true
					usedHistory = true
				}
				if !hasHeadcount {
					headcount, hasHeadcount = est.Headcount, true
					usedHistory = true
				}
			}
		}
		if !hasHours {
			hours = rule.DefaultHours
		}
		if !hasHeadcount {
			headcount = rule.DefaultHeadcount
		}
		hours, headcount = entity.ClampEffort(hours, headcount)

		records = append(records, entity.TaskRecord{
			ReportText:          text,
			TaskName:            rule.Name,
			Trade:               rule.Trade,
			Headcount:           headcount,
			Hours:               hours,
			Priority:            entity.PriorityFor(rule.Name),
			IsRuleMatched:       true,
			UsedHistoryFallback: usedHistory,
		})
	}

	c.logger.Debug("classify.done",
		"rules", c.catalogue.Len(),
		"matched", len(records),
		"history_fallback", allowHistoryFallback,
		"history_hit", hasEstimate,
	)
	return records
}

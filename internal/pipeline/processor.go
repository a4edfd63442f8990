// Package pipeline wires text extraction, normalization, classification and
// the history store into the report-processing flow.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/classify"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/extract"
	"github.com/joseph-ayodele/followups-tracker/internal/history"
	"github.com/joseph-ayodele/followups-tracker/internal/normalize"
)

// Result is the outcome for one report.
type Result struct {
	Report           entity.Report
	Normalized       string
	Tasks            []entity.TaskRecord
	NeedsManualEntry bool

	Method   string   // extraction method, empty for manual text
	Warnings []string // extraction warnings
	Err      error    // extraction failure; Tasks is empty when set
}

// Processor coordinates extraction, normalization and classification.
type Processor struct {
	logger     *slog.Logger
	classifier *classify.Classifier
	store      history.Store
	extractor  extract.TextExtractor
	workers    int
}

type Option func(*Processor)

// WithWorkers bounds the concurrency of batch runs.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithExtractor enables file processing.
func WithExtractor(x extract.TextExtractor) Option {
	return func(p *Processor) { p.extractor = x }
}

func NewProcessor(logger *slog.Logger, classifier *classify.Classifier, store history.Store, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = classify.NewClassifier(nil, nil, logger)
	}
	p := &Processor{logger: logger, classifier: classifier, store: store, workers: 4}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Processor) Classifier() *classify.Classifier { return p.classifier }

// History returns the current history snapshot.
func (p *Processor) History(ctx context.Context) ([]entity.HistoricalRecord, error) {
	hist, err := p.store.Load(ctx)
	if err != nil {
		return nil, common.NewAppError("HISTORY_LOAD", "failed to load history", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	return hist, nil
}

// Save merges accepted records into the history store and returns the new snapshot.
func (p *Processor) Save(ctx context.Context, records []entity.HistoricalRecord) ([]entity.HistoricalRecord, error) {
	merged, err := p.store.Save(ctx, records)
	if err != nil {
		return nil, common.NewAppError("HISTORY_SAVE", "failed to save history", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	p.logger.Info("processor.history.saved", "saved", len(records), "total", len(merged))
	return merged, nil
}

// ProcessText classifies a single report against the current history.
func (p *Processor) ProcessText(ctx context.Context, text string, source constants.ReportSource) (Result, error) {
	if source == "" {
		source = constants.SourceManual
	}
	results, err := p.Run(ctx, []entity.Report{{ID: uuid.New(), Source: source, Text: text}})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// ProcessFile extracts text from path and classifies it.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	results, err := p.ProcessFiles(ctx, []string{path})
	if err != nil {
		return Result{}, err
	}
	if results[0].Err != nil {
		return results[0], results[0].Err
	}
	return results[0], nil
}

// snapshot loads the history for a batch. An unreadable store counts as empty
// history; the returned warning is attached to every result of the batch.
func (p *Processor) snapshot(ctx context.Context) ([]entity.HistoricalRecord, string) {
	hist, err := p.store.Load(ctx)
	if err != nil {
		p.logger.Warn("processor.history.unreadable", "run_id", common.RunIDFromContext(ctx), "error", err)
		return nil, "history unreadable, classified without it: " + err.Error()
	}
	return hist, ""
}

func appendWarning(warnings []string, w string) []string {
	if w == "" {
		return warnings
	}
	return append(warnings[:len(warnings):len(warnings)], w)
}

// Run classifies reports concurrently against one history snapshot loaded up
// front. Results keep the input order.
func (p *Processor) Run(ctx context.Context, reports []entity.Report) ([]Result, error) {
	ctx = p.withRun(ctx)
	hist, warn := p.snapshot(ctx)

	results := make([]Result, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, r := range reports {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.classifyReport(gctx, r, hist)
			results[i].Warnings = appendWarning(results[i].Warnings, warn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessFiles extracts and classifies files concurrently. A file that cannot
// be extracted yields a Result with Err set; the batch continues.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) ([]Result, error) {
	if p.extractor == nil {
		return nil, common.NewAppError("NO_EXTRACTOR", "file processing is not configured", common.ErrInternal)
	}
	ctx = p.withRun(ctx)
	hist, warn := p.snapshot(ctx)

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processFile(gctx, path, hist)
			results[i].Warnings = appendWarning(results[i].Warnings, warn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) processFile(ctx context.Context, path string, hist []entity.HistoricalRecord) Result {
	report := entity.Report{
		ID:     uuid.New(),
		Source: constants.MapExtToSource(filepath.Ext(path)),
		Path:   path,
	}
	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("processor.extract.failed", "run_id", common.RunIDFromContext(ctx), "path", path, "error", err)
		return Result{Report: report, Method: res.Method, Warnings: res.Warnings, Err: err}
	}
	if res.Source != "" {
		report.Source = res.Source
	}
	report.Text = res.Text

	out := p.classifyReport(ctx, report, hist)
	out.Method = res.Method
	out.Warnings = res.Warnings
	return out
}

func (p *Processor) classifyReport(ctx context.Context, r entity.Report, hist []entity.HistoricalRecord) Result {
	normalized := normalize.Normalize(r.Text)
	out := Result{Report: r, Normalized: normalized}
	if strings.TrimSpace(normalized) != "" {
		out.Tasks = p.classifier.Classify(normalized, hist, r.Source.AllowsHistoryFallback())
	}
	out.NeedsManualEntry = len(out.Tasks) == 0

	p.logger.Info("processor.report.done",
		"run_id", common.RunIDFromContext(ctx),
		"report_id", r.ID,
		"source", r.Source,
		"tasks", len(out.Tasks),
		"needs_manual_entry", out.NeedsManualEntry,
	)
	return out
}

func (p *Processor) withRun(ctx context.Context) context.Context {
	if common.RunIDFromContext(ctx) != "" {
		return ctx
	}
	return common.WithRunID(ctx, uuid.NewString())
}

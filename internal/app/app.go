// Package app assembles the processing stack shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/followups-tracker/internal/classify"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/export"
	"github.com/joseph-ayodele/followups-tracker/internal/extract"
	"github.com/joseph-ayodele/followups-tracker/internal/history"
	"github.com/joseph-ayodele/followups-tracker/internal/ocr"
	"github.com/joseph-ayodele/followups-tracker/internal/pipeline"
	"github.com/joseph-ayodele/followups-tracker/internal/repository"
)

// App bundles the long-lived components built from a Config.
type App struct {
	Config     *common.Config
	Logger     *slog.Logger
	Store      history.Store
	Classifier *classify.Classifier
	Extractor  *ocr.Extractor
	Processor  *pipeline.Processor
	Exporter   *export.Service

	closeStore func()
}

// New validates cfg and opens the configured history store.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger, opts ...ocr.Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalogue, err := classify.LoadCatalogue(cfg.Catalogue.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	logger.Info("task catalogue ready", "path", cfg.Catalogue.Path, "rules", catalogue.Len())
	classifier := classify.NewClassifier(catalogue, history.NewMatcher(cfg.History.SimilarityThreshold), logger)

	store, closeStore, err := repository.OpenHistoryStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	extractor := ocr.NewExtractor(ocr.ConfigFromCommon(cfg.OCR), logger, opts...)
	proc := pipeline.NewProcessor(logger, classifier, store,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithExtractor(extract.NewOCRAdapter(extractor, logger)),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Classifier: classifier,
		Extractor:  extractor,
		Processor:  proc,
		Exporter:   export.NewService(logger),
		closeStore: closeStore,
	}, nil
}

// Close releases the history store.
func (a *App) Close() {
	if a.closeStore != nil {
		a.closeStore()
	}
}

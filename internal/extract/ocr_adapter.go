package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/followups-tracker/internal/ocr"
)

type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

var _ TextExtractor = (*OCRAdapter)(nil)

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	for _, w := range r.Warnings {
		a.logger.Warn("extract.warning", "path", path, "warning", w)
	}
	return TextExtractionResult{
		Text:     r.Text,
		Pages:    r.Pages,
		Source:   r.Source,
		Method:   r.Method,
		Language: r.Language,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}, err
}

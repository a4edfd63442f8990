package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "deu"
	TessdataDir   string
	DPI           int // rasterization DPI for pages without a text layer, default 300
	MaxPages      int // 0 = no limit

	PSM int // e.g., 6 is good for uniform block of text
}

// Extraction methods reported in ExtractionResult.Method.
const (
	MethodPDFText   = "pdf-text"
	MethodPDFOCR    = "pdf-ocr"
	MethodPDFMixed  = "pdf-mixed"
	MethodPdftotext = "pdftotext"
	MethodImageOCR  = "image-ocr"
	MethodPlainText = "plain-text"
)

type ExtractionResult struct {
	Text     string
	Pages    int
	Source   constants.ReportSource
	Method   string
	Language string
	Duration time.Duration
	Warnings []string
	OCRPages []int // 1-based pages that went through tesseract
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the exec runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "deu"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConfigFromCommon maps the OCR section of the application config.
func ConfigFromCommon(c common.OCRConfig) Config {
	return Config{
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
	}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToSource(ext) {
	case constants.SourcePDF:
		res, err = e.extractPDF(ctx, path)
	case constants.SourceImage:
		res, err = e.extractImage(ctx, path)
	case constants.SourceText:
		res, err = e.extractPlainText(path)
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", common.ErrExtraction, filepath.Base(path), err)
	}

	e.logger.Info("ocr.extract.done",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"ocr_pages", len(res.OCRPages),
		"chars", len([]rune(res.Text)),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/followups-tracker/constants"
)

// TextExtractor turns a report file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Source   constants.ReportSource
	Method   string // "pdf-text" | "pdf-ocr" | "pdf-mixed" | "pdftotext" | "image-ocr" | "plain-text"
	Language string
	Duration time.Duration
	Warnings []string
}

// Package export renders reviewed follow-up records as XLSX workbooks and
// printable PDF lists.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/followups-tracker/internal/review"
)

// Service produces export bytes and optionally writes them to a directory.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

// Files names the outputs written by WriteFiles.
type Files struct {
	XLSX string
	PDF  string
}

// WriteFiles writes both exports for rows into dir, named after the current time.
func (s *Service) WriteFiles(ctx context.Context, dir string, rows []review.Row) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create export dir: %w", err)
	}
	base := "folgearbeiten_" + s.now().Format("20060102_150405")
	out := Files{
		XLSX: filepath.Join(dir, base+".xlsx"),
		PDF:  filepath.Join(dir, base+".pdf"),
	}

	xlsx, err := s.XLSX(ctx, rows)
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(out.XLSX, xlsx, 0o644); err != nil {
		return Files{}, fmt.Errorf("write xlsx: %w", err)
	}
	pdf, err := s.PDF(ctx, rows)
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(out.PDF, pdf, 0o644); err != nil {
		return Files{}, fmt.Errorf("write pdf: %w", err)
	}

	s.logger.Info("export.files.ok", "xlsx", out.XLSX, "pdf", out.PDF, "rows", len(rows))
	return out, nil
}

package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/review"
	"github.com/joseph-ayodele/followups-tracker/internal/utils"
)

// PrintLine renders one record the way it appears in the print list.
func PrintLine(r entity.TaskRecord) string {
	return fmt.Sprintf("%s | %s | %d Pers. | %sh | Priorität: %s",
		r.TaskName, r.Trade, r.Headcount, utils.FormatDecimal(r.Hours), r.Priority)
}

// PDF returns a printable A4 list with one line per record, selected or not.
func (s *Service) PDF(_ context.Context, rows []review.Row) ([]byte, error) {
	start := time.Now()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(SheetName, true)
	doc.SetCreationDate(s.now())
	// core fonts are cp1252; umlauts need translating
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, tr(SheetName), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)

	for _, r := range rows {
		doc.MultiCell(0, 10, tr(PrintLine(r.Record)), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}

	s.logger.Info("export.pdf.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

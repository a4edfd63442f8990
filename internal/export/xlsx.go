package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/followups-tracker/internal/review"
)

// SheetName is the worksheet holding the exported records.
const SheetName = "Folgearbeiten"

// XLSXHeaders are the column titles of the export, in order.
var XLSXHeaders = []string{
	"Bericht",
	"Arbeit",
	"Gewerk",
	"Personen",
	"Stunden",
	"Priorität",
	"Regelerkannt",
	"Historie",
	"Ausgewählt",
}

// XLSX returns a workbook with one row per record, selected or not.
func (s *Service) XLSX(_ context.Context, rows []review.Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close", "error", err)
		}
	}()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range XLSXHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(SheetName, "A1", "I1", bold)
	}

	for i, r := range rows {
		rowNum := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		rec := r.Record
		write(1, rec.ReportText)
		write(2, rec.TaskName)
		write(3, rec.Trade)
		write(4, rec.Headcount)
		write(5, rec.Hours)
		write(6, string(rec.Priority))
		write(7, rec.IsRuleMatched)
		write(8, rec.UsedHistoryFallback)
		write(9, r.Selected)
	}

	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(XLSXHeaders), len(rows)+1)
		_ = f.AutoFilter(SheetName, "A1:"+last, nil)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 60) // report
	_ = f.SetColWidth(SheetName, "B", "B", 28) // task
	_ = f.SetColWidth(SheetName, "C", "C", 16) // trade
	_ = f.SetColWidth(SheetName, "D", "E", 10) // effort
	_ = f.SetColWidth(SheetName, "F", "I", 13) // flags

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

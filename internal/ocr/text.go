package ocr

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/joseph-ayodele/followups-tracker/constants"
)

// extractPlainText reads a .txt report. Files that are not valid UTF-8 are
// assumed to be Windows-1252, which is what German office PCs tend to write.
func (e *Extractor) extractPlainText(path string) (ExtractionResult, error) {
	res := ExtractionResult{Pages: 1, Source: constants.SourceText, Method: MethodPlainText}

	raw, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read text report: %w", err)
	}
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return res, fmt.Errorf("decode cp1252: %w", err)
		}
		res.Warnings = append(res.Warnings, "decoded as windows-1252")
		raw = decoded
	}
	res.Text = Normalize(strings.TrimPrefix(string(raw), "\ufeff"))
	return res, nil
}

package constants

// ReportSource records where a report's text came from.
type ReportSource string

const (
	SourceManual ReportSource = "MANUAL" // typed in by an operator
	SourcePDF    ReportSource = "PDF"    // text layer or OCR of a PDF
	SourceImage  ReportSource = "IMAGE"  // OCR of a scanned image
	SourceText   ReportSource = "TXT"    // plain text file
)

// AllowsHistoryFallback reports whether effort values may be read from the
// report text or taken from history. Only manual reports qualify; extracted
// text is too noisy and always falls back to catalogue defaults.
func (s ReportSource) AllowsHistoryFallback() bool {
	return s == SourceManual
}

// ParseReportSource accepts the lower- or upper-case source names.
func ParseReportSource(s string) (ReportSource, bool) {
	switch ReportSource(upper(s)) {
	case SourceManual:
		return SourceManual, true
	case SourcePDF:
		return SourcePDF, true
	case SourceImage:
		return SourceImage, true
	case SourceText:
		return SourceText, true
	case "EXTRACTED":
		return SourcePDF, true
	}
	return "", false
}

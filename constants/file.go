package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for report ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"txt":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToSource returns the report source for a file extension, or "" if unsupported.
func MapExtToSource(ext string) ReportSource {
	switch NormalizeExt(ext) {
	case "pdf":
		return SourcePDF
	case "txt":
		return SourceText
	case "jpg", "jpeg", "png":
		return SourceImage
	default:
		return ""
	}
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

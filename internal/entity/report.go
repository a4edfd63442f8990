package entity

import (
	"github.com/google/uuid"

	"github.com/joseph-ayodele/followups-tracker/constants"
)

// Report is one technician report handed to the pipeline.
type Report struct {
	ID     uuid.UUID              `json:"id"`
	Source constants.ReportSource `json:"source"`
	Path   string                 `json:"path,omitempty"`
	Text   string                 `json:"text"`
}

// NewManualReport wraps operator-entered text.
func NewManualReport(text string) Report {
	return Report{ID: uuid.New(), Source: constants.SourceManual, Text: text}
}

package history

import (
	"context"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
)

// Store persists accepted task records.
//
// Load returns an empty slice, not an error, when nothing was saved yet.
// Save merges records into the stored set (see Merge), rewrites the whole
// snapshot and returns it.
type Store interface {
	Load(ctx context.Context) ([]entity.HistoricalRecord, error)
	Save(ctx context.Context, records []entity.HistoricalRecord) ([]entity.HistoricalRecord, error)
}

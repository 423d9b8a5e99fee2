package driven

import (
	"context"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
)

// TemplateStore persists template records.
// It is an opaque document collection keyed by template ID; all
// similarity ranking happens in the core after a full scan, nothing
// is pushed down to the store.
type TemplateStore interface {
	// Upsert inserts a record or fully replaces an existing one with
	// the same ID. The store assigns UploadedAt at write time.
	Upsert(ctx context.Context, record *domain.TemplateRecord) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.TemplateRecord, error)

	// ScanAll returns every stored record. Order is stable across
	// calls so that ranking tie-breaks are reproducible.
	ScanAll(ctx context.Context) ([]domain.TemplateRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// Package memory provides in-memory adapters for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// TemplateStore is an in-memory implementation of driven.TemplateStore.
// Insertion order is preserved so ScanAll yields a stable corpus order
// for ranking tie-breaks.
type TemplateStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]domain.TemplateRecord
}

// NewTemplateStore creates a new in-memory template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{
		records: make(map[string]domain.TemplateRecord),
	}
}

// Upsert inserts a record or fully replaces an existing one.
// UploadedAt is stamped at write time.
func (s *TemplateStore) Upsert(_ context.Context, record *domain.TemplateRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.UploadedAt = time.Now().UTC()
	if _, exists := s.records[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.records[record.ID] = *record
	return nil
}

// Get retrieves a record by ID.
func (s *TemplateStore) Get(_ context.Context, id string) (*domain.TemplateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// ScanAll returns every stored record in insertion order.
func (s *TemplateStore) ScanAll(_ context.Context) ([]domain.TemplateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.TemplateRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *TemplateStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close releases resources.
func (s *TemplateStore) Close() error {
	return nil
}

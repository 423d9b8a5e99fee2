// Package extract converts template source files to plain text.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Registry selects an extractor by file extension.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
// Later extractors win on extension conflicts.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExtension: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExtension[strings.ToLower(ext)] = e
		}
	}
	return r
}

// ForFile returns the extractor handling the file's extension.
func (r *Registry) ForFile(fileName string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	e, ok := r.byExtension[ext]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return e, nil
}

// Supported reports whether any extractor handles the file.
func (r *Registry) Supported(fileName string) bool {
	_, ok := r.byExtension[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

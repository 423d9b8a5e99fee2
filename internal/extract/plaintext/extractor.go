// Package plaintext extracts text from plain .txt template files.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt"}
}

// Extract treats blank-line separated blocks as paragraphs: the first
// non-empty one becomes the description.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	var paragraphs []string
	for _, block := range strings.Split(string(content), "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	extraction := &driven.Extraction{
		FullText: strings.Join(paragraphs, "\n"),
	}
	if len(paragraphs) > 0 {
		extraction.Description = paragraphs[0]
	}
	return extraction, nil
}

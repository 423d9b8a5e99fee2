package driven

import "context"

// Extraction is the result of converting a template file to text.
type Extraction struct {
	// Description is the first non-empty paragraph, trimmed.
	// Empty when the file yields no text.
	Description string

	// FullText is all non-empty paragraphs joined with newlines.
	FullText string
}

// Extractor converts a source document file into plain text.
type Extractor interface {
	// Extract converts raw file content into an Extraction.
	Extract(ctx context.Context, fileName string, content []byte) (*Extraction, error)

	// Extensions returns the file extensions this extractor handles,
	// lowercased and including the leading dot.
	Extensions() []string
}

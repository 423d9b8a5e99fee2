package domain

import "time"

// TemplateType identifies the source format of a template file.
type TemplateType string

// Supported template source formats.
const (
	TemplateTypeDocx TemplateType = "docx"
	TemplateTypeText TemplateType = "txt"
)

// TemplateRecord is the canonical stored representation of a legal
// document template: metadata plus a fixed-dimension embedding used
// for similarity ranking.
type TemplateRecord struct {
	// ID is the stable identifier derived from the source filename.
	// Re-ingesting the same filename always produces the same ID.
	ID string `json:"id"`

	// Name is the human-readable title, taken from the filename stem.
	Name string `json:"name"`

	// Description is the first non-empty paragraph of the extracted
	// text, or a synthesized fallback. Never empty in a well-formed
	// record.
	Description string `json:"description"`

	// Type is the source format tag.
	Type TemplateType `json:"type"`

	// StorageURL is the externally resolvable location of the
	// original file, owned by the blob storage collaborator.
	StorageURL string `json:"storageUrl"`

	// Embedding is the dense vector for this template. It may be
	// absent (nil); ranking branches on presence and skips records
	// without one.
	Embedding []float32 `json:"embedding,omitempty"`

	// FileName is the original source filename.
	FileName string `json:"fileName"`

	// TextLength is the length of the full extracted text.
	TextLength int `json:"textLength"`

	// EmbeddingDimensions records the embedding length at build time.
	// Kept as a lightweight consistency check; the store does not
	// enforce it.
	EmbeddingDimensions int `json:"embeddingDimensions"`

	// UploadedAt is assigned by the store at write time.
	UploadedAt time.Time `json:"uploadedAt"`
}

// HasEmbedding reports whether the record carries an embedding and
// can participate in similarity ranking.
func (r *TemplateRecord) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// RankedTemplate is a TemplateRecord with its similarity to a query.
// It is produced fresh per query and never persisted.
type RankedTemplate struct {
	TemplateRecord

	// Similarity is the cosine similarity against the query
	// embedding, in [-1, 1].
	Similarity float64 `json:"similarity"`
}

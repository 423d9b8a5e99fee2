package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a search was attempted with an empty
	// query. Callers must reject empty queries before invoking the
	// core; this error is the backstop.
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidQueryEmbedding indicates the query vector is zero or
	// degenerate. Cosine similarity is undefined for it, so the whole
	// query fails.
	ErrInvalidQueryEmbedding = errors.New("invalid query embedding")

	// ErrMalformedRecord indicates a stored record whose embedding is
	// missing or zero-norm. Such records are excluded from ranking,
	// never treated as zero-similarity.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnsupportedType indicates a file format no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Both ingestion and search require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the template store is not configured.
	ErrStoreUnavailable = errors.New("template store unavailable")
)

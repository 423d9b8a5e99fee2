package driven

import (
	"context"
	"io"
)

// BlobStore stores original template files and serves them publicly.
// Uploads are keyed by path; re-uploading the same key overwrites in
// place, which is what makes re-ingestion idempotent at the blob level.
type BlobStore interface {
	// Upload stores the content under the given key and returns a
	// publicly resolvable URL for it.
	Upload(ctx context.Context, key string, content io.Reader) (string, error)
}

// Package fs provides a local-directory blob store, useful for offline
// ingestion and tests.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore copies template files into a directory on the local
// filesystem. Keys map directly to relative paths under the root.
type BlobStore struct {
	root string
}

// NewBlobStore creates a blob store rooted at dir. If dir is empty,
// defaults to ~/.templar/blobs.
func NewBlobStore(dir string) (*BlobStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".templar", "blobs")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &BlobStore{root: dir}, nil
}

// Upload writes the content to root/key and returns a file:// URL.
// Existing files are overwritten.
func (b *BlobStore) Upload(ctx context.Context, key string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(b.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return "", fmt.Errorf("creating blob subdirectory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("writing blob %s: %w", key, err)
	}
	return "file://" + filepath.ToSlash(dest), nil
}

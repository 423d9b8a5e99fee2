package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	extractor := New()

	content := "A residential lease agreement.\n\nSection 1.\nTerm of lease.\n\n"
	result, err := extractor.Extract(context.Background(), "lease.txt", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "A residential lease agreement.", result.Description)
	assert.Equal(t, "A residential lease agreement.\nSection 1.\nTerm of lease.", result.FullText)
}

func TestExtract_Empty(t *testing.T) {
	result, err := New().Extract(context.Background(), "empty.txt", []byte("  \n\n \n"))
	require.NoError(t, err)

	assert.Empty(t, result.Description)
	assert.Empty(t, result.FullText)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".txt"}, New().Extensions())
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/extract/docx"
	"github.com/custodia-labs/templar-cli/internal/extract/plaintext"
)

func TestRegistry_ForFile(t *testing.T) {
	registry := NewRegistry(docx.New(), plaintext.New())

	e, err := registry.ForFile("Non-Disclosure Agreement (NDA).docx")
	require.NoError(t, err)
	assert.IsType(t, &docx.Extractor{}, e)

	e, err = registry.ForFile("notes.TXT")
	require.NoError(t, err)
	assert.IsType(t, &plaintext.Extractor{}, e)
}

func TestRegistry_UnsupportedExtension(t *testing.T) {
	registry := NewRegistry(docx.New())

	_, err := registry.ForFile("scan.pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_Supported(t *testing.T) {
	registry := NewRegistry(docx.New(), plaintext.New())

	assert.True(t, registry.Supported("a.docx"))
	assert.True(t, registry.Supported("A.DOCX"))
	assert.True(t, registry.Supported("b.txt"))
	assert.False(t, registry.Supported("c.pdf"))
	assert.False(t, registry.Supported("noext"))
}

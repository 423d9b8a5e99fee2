package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
)

// idReplacer applies the fixed substitution table for template IDs.
// Order matters: parentheses, commas and dots are removed, spaces and
// hyphens collapse to underscores, ampersands become "and".
var idReplacer = strings.NewReplacer(
	" ", "_",
	"(", "",
	")", "",
	",", "",
	".", "",
	"-", "_",
	"&", "and",
)

// DeriveTemplateID derives the stable record identifier from a source
// filename. It is pure and deterministic: the same filename always
// yields the same ID, which is what makes re-ingestion idempotent.
//
// "Non-Disclosure Agreement (NDA).docx" -> "non_disclosure_agreement_nda"
func DeriveTemplateID(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return strings.ToLower(idReplacer.Replace(name))
}

// templateName returns the human-readable title: the filename stem.
func templateName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// templateType maps a filename extension to its format tag.
func templateType(fileName string) domain.TemplateType {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return domain.TemplateTypeDocx
	case ".txt":
		return domain.TemplateTypeText
	default:
		return domain.TemplateType(strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."))
	}
}

// BuildRecord assembles a normalized TemplateRecord from extraction
// output, the computed embedding and the blob storage URL. It is a
// pure function of its inputs; UploadedAt is left zero for the store
// to stamp at write time.
//
// An empty description is replaced with a synthesized fallback so a
// well-formed record never has an empty description.
func BuildRecord(
	fileName string,
	description string,
	fullText string,
	embedding []float32,
	storageURL string,
) *domain.TemplateRecord {
	name := templateName(fileName)
	if description == "" {
		description = fmt.Sprintf("Legal document template: %s", name)
	}

	return &domain.TemplateRecord{
		ID:                  DeriveTemplateID(fileName),
		Name:                name,
		Description:         description,
		Type:                templateType(fileName),
		StorageURL:          storageURL,
		Embedding:           embedding,
		FileName:            fileName,
		TextLength:          len(fullText),
		EmbeddingDimensions: len(embedding),
	}
}

// Package docx extracts text from DOCX template files.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX files. A DOCX is a ZIP archive whose body
// text lives in word/document.xml.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract converts DOCX content to an Extraction: the first non-empty
// paragraph becomes the description, all non-empty paragraphs joined
// with newlines become the full text.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	paragraphs, err := extractParagraphs(reader)
	if err != nil {
		return nil, err
	}

	extraction := &driven.Extraction{
		FullText: strings.Join(paragraphs, "\n"),
	}
	if len(paragraphs) > 0 {
		extraction.Description = paragraphs[0]
	}
	return extraction, nil
}

// extractParagraphs pulls the non-empty paragraph texts from
// word/document.xml, trimmed, in document order.
func extractParagraphs(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		return parseDocumentXML(content), nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts the non-empty paragraph texts.
func parseDocumentXML(content []byte) []string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil
	}

	var paragraphs []string
	for _, para := range doc.Body.Paragraphs {
		var text strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				text.WriteString(t.Content)
			}
		}
		if trimmed := strings.TrimSpace(text.String()); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_VerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	}()

	Debug("processing %s", "file.docx")
	assert.Contains(t, buf.String(), "[DEBUG] processing file.docx")
}

func TestDebug_VerboseDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("should not appear")
	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer SetVerbose(false)

	Section("Ingestion")
	assert.Contains(t, buf.String(), "=== Ingestion ===")
}

func TestError_AlwaysPrinted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("failed to process %s: %v", "nda.docx", "boom")
	assert.Contains(t, buf.String(), "[ERROR] failed to process nda.docx: boom")
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	buf, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "templar version")
	assert.Contains(t, buf.String(), version)
}

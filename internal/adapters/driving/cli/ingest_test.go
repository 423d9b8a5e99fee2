package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [dir]", ingestCmd.Use)
}

func TestIngestCmd_RequiresDir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf, err := execute(t, "ingest", "/tmp/templates")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Ingested 3 of 4 templates")
	assert.Contains(t, buf.String(), "(1 failed)")

	mock := ingestOrchestrator.(*mockIngestOrchestrator)
	assert.Equal(t, "/tmp/templates", mock.lastDir)
}

func TestIngestCmd_PropagatesCommandContext(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rootCmd.SetContext(ctx)
	defer rootCmd.SetContext(context.Background())
	// cobra only copies the root context to a subcommand whose own
	// context is nil; earlier Executes leave a stale one cached.
	ingestCmd.SetContext(ctx)
	defer ingestCmd.SetContext(context.Background())

	_, err := execute(t, "ingest", "/tmp/templates")
	require.NoError(t, err)

	mock := ingestOrchestrator.(*mockIngestOrchestrator)
	require.NotNil(t, mock.lastCtx)
	cancel()
	assert.ErrorIs(t, mock.lastCtx.Err(), context.Canceled,
		"cancelling the command context must reach the pipeline")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	oldService := ingestOrchestrator
	ingestOrchestrator = nil
	defer func() { ingestOrchestrator = oldService }()

	_, err := execute(t, "ingest", "/tmp/templates")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestIngestCmd_FatalError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestOrchestrator = &mockIngestOrchestrator{err: errors.New("directory does not exist")}

	_, err := execute(t, "ingest", "/nope")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
}

func TestIngestCmd_HasWatchFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("watch")
	assert.NotNil(t, flag)
	assert.Equal(t, "w", flag.Shorthand)
}

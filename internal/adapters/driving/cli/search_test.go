package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
)

type mockSearchService struct {
	results []domain.RankedTemplate
	err     error
	lastK   int
	lastCtx context.Context
}

func (m *mockSearchService) SearchTemplates(ctx context.Context, _ string, k int) ([]domain.RankedTemplate, error) {
	m.lastCtx = ctx
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type mockIngestOrchestrator struct {
	summary *driving.IngestSummary
	status  *driving.IngestStatus
	err     error
	lastDir string
	lastCtx context.Context
}

func (m *mockIngestOrchestrator) Run(ctx context.Context, dir string) (*driving.IngestSummary, error) {
	m.lastCtx = ctx
	m.lastDir = dir
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockIngestOrchestrator) Status() *driving.IngestStatus {
	return m.status
}

// setupTestServices swaps in mock services and returns a cleanup func
// restoring the previous ones.
func setupTestServices() func() {
	oldSearch := searchService
	oldIngest := ingestOrchestrator

	searchService = &mockSearchService{
		results: []domain.RankedTemplate{
			{
				TemplateRecord: domain.TemplateRecord{
					ID:          "non_disclosure_agreement_nda",
					Name:        "Non-Disclosure Agreement (NDA)",
					Description: "Protects confidential information",
					StorageURL:  "https://blobs.example.com/templates/nda.docx",
				},
				Similarity: 0.9312,
			},
		},
	}
	ingestOrchestrator = &mockIngestOrchestrator{
		summary: &driving.IngestSummary{RunID: "run-1", Succeeded: 3, Failed: 1, Total: 4},
	}

	return func() {
		searchService = oldSearch
		ingestOrchestrator = oldIngest
	}
}

func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf, err
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf, err := execute(t, "search", "protect confidential information")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "Non-Disclosure Agreement (NDA)")
	assert.Contains(t, buf.String(), "0.9312")
}

func TestSearchCmd_PassesLimit(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search", "-n", "2", "lease")
	require.NoError(t, err)

	mock := searchService.(*mockSearchService)
	assert.Equal(t, 2, mock.lastK)

	searchLimit = 5 // reset flag for other tests
}

func TestSearchCmd_PropagatesCommandContext(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rootCmd.SetContext(ctx)
	defer rootCmd.SetContext(context.Background())
	// cobra only copies the root context to a subcommand whose own
	// context is nil; earlier Executes leave a stale one cached.
	searchCmd.SetContext(ctx)
	defer searchCmd.SetContext(context.Background())

	_, err := execute(t, "search", "lease")
	require.NoError(t, err)

	mock := searchService.(*mockSearchService)
	require.NotNil(t, mock.lastCtx)
	cancel()
	assert.ErrorIs(t, mock.lastCtx.Err(), context.Canceled,
		"cancelling the command context must reach the service")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()

	buf, err := execute(t, "search", "--json", "confidentiality")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"similarity"`)
	assert.Contains(t, buf.String(), `"non_disclosure_agreement_nda"`)
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := searchService
	searchService = nil
	defer func() { searchService = oldService }()

	_, err := execute(t, "search", "test")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	oldService := searchService
	searchService = &mockSearchService{err: errors.New("embedding provider down")}
	defer func() { searchService = oldService }()

	_, err := execute(t, "search", "test")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, nil)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No matching templates found")
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchJSON(rootCmd, nil)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[]")
}

// Package cli implements the cobra command tree for the Templar CLI.
// Services are injected by main before Execute runs.
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
	"github.com/custodia-labs/templar-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Injected services. Commands check for nil and fail with a clear
// message when main has not wired them.
var (
	searchService      driving.TemplateSearchService
	ingestOrchestrator driving.IngestOrchestrator
)

// serveAddr is the default listen address for the serve command,
// overridable from config before Execute.
var serveAddr = ":8080"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "templar",
	Short: "Semantic search over legal document templates",
	Long: `Templar ingests a directory of legal document templates, embeds
each one with a text embedding model and answers free-text queries
with the closest matching templates.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.templar)")
}

// Configure injects the core services and server defaults.
// Must be called before Execute.
func Configure(search driving.TemplateSearchService, ingest driving.IngestOrchestrator, addr string) {
	searchService = search
	ingestOrchestrator = ingest
	if addr != "" {
		serveAddr = addr
	}
}

// Execute runs the root command under a signal-aware context so
// ctrl+c cancels in-flight ingestion and search calls.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
	"github.com/custodia-labs/templar-cli/internal/logger"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest template files from a directory",
	Long: `Walks the given directory, extracts text from each supported
template file, embeds it and stores the resulting record. Individual
file failures are counted and reported; they do not abort the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest when files in the directory change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	cmd.Printf("Ingesting templates from %s...\n", dir)
	summary, err := ingestWithProgress(ctx, cmd, ingestOrchestrator, dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printSummary(cmd, summary)

	if !ingestWatch {
		return nil
	}
	return watchAndIngest(cmd, dir)
}

// ingestWithProgress runs the ingestion while displaying progress updates.
func ingestWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.IngestOrchestrator,
	dir string,
) (*driving.IngestSummary, error) {
	type result struct {
		summary *driving.IngestSummary
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		summary, err := orch.Run(ctx, dir)
		resCh <- result{summary: summary, err: err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resCh:
			return res.summary, res.err
		case <-ticker.C:
			if status := orch.Status(); status != nil && status.Processed > lastCount {
				cmd.Printf("\rProcessing... %d files", status.Processed)
				lastCount = status.Processed
			}
		}
	}
}

func printSummary(cmd *cobra.Command, summary *driving.IngestSummary) {
	if summary == nil {
		return
	}
	cmd.Printf("Ingested %d of %d templates", summary.Succeeded, summary.Total)
	if summary.Failed > 0 {
		cmd.Printf(" (%d failed)", summary.Failed)
	}
	cmd.Println()
}

// watchAndIngest re-runs the ingestion whenever files in dir change.
// Events are debounced so a burst of writes triggers a single run.
// Blocks until interrupted.
func watchAndIngest(cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx := cmd.Context()
	cmd.Printf("Watching %s for changes (ctrl+c to stop)...\n", dir)

	var debounce *time.Timer
	runs := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editor lock files churn constantly while a document is open.
			if strings.HasPrefix(filepath.Base(event.Name), "~") {
				continue
			}
			logger.Debug("filesystem event: %s", event)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(2*time.Second, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})

		case <-runs:
			cmd.Println("Change detected, re-ingesting...")
			summary, err := ingestOrchestrator.Run(ctx, dir)
			if err != nil {
				cmd.PrintErrf("re-ingest failed: %v\n", err)
				continue
			}
			printSummary(cmd, summary)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

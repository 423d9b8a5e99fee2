package driving

import "context"

// IngestSummary aggregates the outcome of one ingestion run.
// Per-file failures are absorbed into Failed; they never abort the run.
type IngestSummary struct {
	// RunID identifies this run in logs.
	RunID string

	// Succeeded is the number of files fully processed and stored.
	Succeeded int

	// Failed is the number of files that failed at any step.
	Failed int

	// Total is the number of candidate files found.
	Total int
}

// IngestStatus reports progress of a running ingestion.
type IngestStatus struct {
	// Running is true while a run is in progress.
	Running bool

	// Processed is the number of files handled so far.
	Processed int

	// ErrorCount is the number of per-file failures so far.
	ErrorCount int
}

// IngestOrchestrator coordinates template ingestion from a source directory.
type IngestOrchestrator interface {
	// Run ingests every supported file in dir. A missing directory or
	// failed collaborator initialisation is fatal; individual file
	// failures are counted and logged.
	Run(ctx context.Context, dir string) (*IngestSummary, error)

	// Status returns progress of the current run, if any.
	Status() *IngestStatus
}

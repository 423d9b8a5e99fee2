package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
	"github.com/custodia-labs/templar-cli/internal/logger"
)

// Ensure IngestPipeline implements the interface.
var _ driving.IngestOrchestrator = (*IngestPipeline)(nil)

// blobKeyPrefix is the blob storage folder for original template files.
const blobKeyPrefix = "templates"

// ExtractorRegistry selects an extractor for a filename.
type ExtractorRegistry interface {
	// ForFile returns the extractor for the file, or
	// domain.ErrUnsupportedType when no extractor handles it.
	ForFile(fileName string) (driven.Extractor, error)

	// Supported reports whether any extractor handles the file.
	Supported(fileName string) bool
}

// IngestPipeline ingests template files from a directory:
// extract -> embed -> upload -> upsert, one file at a time.
//
// A failure at any step fails that file only; the pipeline counts it
// and moves on. Only environment-level failures (missing directory)
// abort the run. Files are processed sequentially in sorted order so
// summary counts are reproducible.
type IngestPipeline struct {
	store            driven.TemplateStore
	embeddingService driven.EmbeddingService
	blobStore        driven.BlobStore
	extractors       ExtractorRegistry
	limiter          *rate.Limiter

	mu     sync.RWMutex
	status *driving.IngestStatus
}

// NewIngestPipeline creates a new ingestion pipeline.
// embedsPerSecond bounds calls to the embedding service; zero or
// negative disables pacing.
func NewIngestPipeline(
	store driven.TemplateStore,
	embeddingService driven.EmbeddingService,
	blobStore driven.BlobStore,
	extractors ExtractorRegistry,
	embedsPerSecond float64,
) *IngestPipeline {
	var limiter *rate.Limiter
	if embedsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(embedsPerSecond), 1)
	}
	return &IngestPipeline{
		store:            store,
		embeddingService: embeddingService,
		blobStore:        blobStore,
		extractors:       extractors,
		limiter:          limiter,
	}
}

// Run ingests every supported file in dir and returns the summary.
func (p *IngestPipeline) Run(ctx context.Context, dir string) (*driving.IngestSummary, error) {
	if p.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if p.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	files, err := p.listTemplates(dir)
	if err != nil {
		return nil, err
	}

	summary := &driving.IngestSummary{
		RunID: uuid.New().String(),
		Total: len(files),
	}

	logger.Section("Ingestion")
	logger.Info("Run %s: %d template files in %s", summary.RunID, len(files), dir)

	status := &driving.IngestStatus{Running: true}
	p.setStatus(status)
	defer p.clearStatus()

	for _, fileName := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if err := p.processOneFile(ctx, dir, fileName); err != nil {
			logger.Error("Failed to process %s: %v", fileName, err)
			summary.Failed++
			p.updateStatus(func(s *driving.IngestStatus) {
				s.Processed++
				s.ErrorCount++
			})
			continue
		}
		summary.Succeeded++
		p.updateStatus(func(s *driving.IngestStatus) { s.Processed++ })
	}

	logger.Info("Run %s complete: %d succeeded, %d failed",
		summary.RunID, summary.Succeeded, summary.Failed)
	return summary, nil
}

// Status returns progress of the current run, if any.
func (p *IngestPipeline) Status() *driving.IngestStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.status == nil {
		return &driving.IngestStatus{}
	}
	copied := *p.status
	return &copied
}

// listTemplates returns the supported filenames in dir, sorted.
// Word lock files ("~$...") are skipped.
func (p *IngestPipeline) listTemplates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~") {
			continue
		}
		if !p.extractors.Supported(name) {
			logger.Debug("Skipping %s: unsupported format", name)
			continue
		}
		files = append(files, name)
	}

	sort.Strings(files)
	return files, nil
}

// processOneFile runs the four-step pipeline for a single template.
func (p *IngestPipeline) processOneFile(ctx context.Context, dir, fileName string) error {
	logger.Debug("Processing: %s", fileName)

	// 1. EXTRACT
	content, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	extractor, err := p.extractors.ForFile(fileName)
	if err != nil {
		return fmt.Errorf("select extractor: %w", err)
	}

	extraction, err := extractor.Extract(ctx, fileName, content)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	// 2. EMBED name + description, never the full text. This keeps
	// embedding cost bounded and favours precision over recall.
	name := templateName(fileName)
	description := extraction.Description
	if description == "" {
		description = fmt.Sprintf("Legal document template: %s", name)
	}

	embedding, err := p.embed(ctx, name+" "+description)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	logger.Debug("Embedded %s: %d dimensions", fileName, len(embedding))

	// 3. UPLOAD the original file, keyed by path so re-runs overwrite.
	var storageURL string
	if p.blobStore != nil {
		storageURL, err = p.blobStore.Upload(ctx, path.Join(blobKeyPrefix, fileName), bytes.NewReader(content))
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		logger.Debug("Uploaded %s: %s", fileName, storageURL)
	}

	// 4. BUILD and UPSERT, keyed by the derived ID.
	record := BuildRecord(fileName, extraction.Description, extraction.FullText, embedding, storageURL)
	if err := p.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("store record: %w", err)
	}

	logger.Info("Stored %s (%d dimensions)", record.ID, record.EmbeddingDimensions)
	return nil
}

// embed calls the embedding service with pacing and retries.
// Remote model APIs are the flaky step of the pipeline.
func (p *IngestPipeline) embed(ctx context.Context, text string) ([]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var embedding []float32
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		embedding, err = p.embeddingService.Embed(ctx, text)
		if err != nil {
			logger.Warn("Embedding call failed, retrying: %v", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return embedding, nil
}

func (p *IngestPipeline) setStatus(status *driving.IngestStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *IngestPipeline) updateStatus(fn func(*driving.IngestStatus)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != nil {
		fn(p.status)
	}
}

func (p *IngestPipeline) clearStatus() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
	"github.com/custodia-labs/templar-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.TemplateSearchService = (*SearchService)(nil)

// SearchService is the query path: embed the query, scan the full
// corpus and rank it in memory. The scan and the scoring are not
// transactional; the corpus may change between them, which is
// acceptable for eventual-consistency reads.
type SearchService struct {
	store            driven.TemplateStore
	embeddingService driven.EmbeddingService
}

// NewSearchService creates a new template search service.
func NewSearchService(store driven.TemplateStore, embeddingService driven.EmbeddingService) *SearchService {
	return &SearchService{
		store:            store,
		embeddingService: embeddingService,
	}
}

// SearchTemplates embeds the query and returns the top-k most similar
// stored templates.
func (s *SearchService) SearchTemplates(
	ctx context.Context, query string, k int,
) ([]domain.RankedTemplate, error) {
	logger.Section("Template Search")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	queryEmbedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryEmbedding))

	corpus, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}
	logger.Debug("Corpus: %d records", len(corpus))

	results, err := RankTemplates(queryEmbedding, corpus, k)
	if err != nil {
		return nil, fmt.Errorf("rank templates: %w", err)
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}

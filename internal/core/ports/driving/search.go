package driving

import (
	"context"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
)

// TemplateSearchService ranks stored templates against a free-text query.
type TemplateSearchService interface {
	// SearchTemplates embeds the query, scores it against every stored
	// record by cosine similarity and returns the top-k results in
	// descending similarity order. k <= 0 selects the default of 5.
	// The query must be non-empty; callers reject empty input first.
	SearchTemplates(ctx context.Context, query string, k int) ([]domain.RankedTemplate, error)
}

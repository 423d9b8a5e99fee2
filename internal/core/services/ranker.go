package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/logger"
)

// DefaultTopK is the number of results returned when the caller does
// not specify a limit.
const DefaultTopK = 5

// RankTemplates scores every record in the corpus against the query
// embedding by cosine similarity and returns the top-k results in
// descending order.
//
// Records without an embedding are skipped silently: they are excluded
// from scoring and do not count against k. A stored vector with zero
// norm is treated as a malformed record and skipped the same way. A
// zero-norm query vector is fatal for the whole call.
//
// Ties keep their relative corpus order (stable sort). This is a
// brute-force O(n*D) scan plus an O(n log n) sort; fine for a corpus
// of tens to low thousands of records, and deliberately not indexed.
func RankTemplates(query []float32, corpus []domain.TemplateRecord, k int) ([]domain.RankedTemplate, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, domain.ErrInvalidQueryEmbedding
	}

	scored := make([]domain.RankedTemplate, 0, len(corpus))
	for i := range corpus {
		record := &corpus[i]
		if !record.HasEmbedding() {
			logger.Debug("Skipping %s: no embedding", record.ID)
			continue
		}

		recordNorm := norm(record.Embedding)
		if recordNorm == 0 {
			logger.Debug("Skipping %s: zero-norm embedding (malformed record)", record.ID)
			continue
		}

		scored = append(scored, domain.RankedTemplate{
			TemplateRecord: *record,
			Similarity:     dot(query, record.Embedding) / (queryNorm * recordNorm),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// dot computes the dot product over the shared prefix of a and b.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// norm computes the L2 norm of v.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

package storage

import (
	"context"
	"slices"

	"github.com/poiesic/lostfound/core"
)

// SimilarityFilter selects the reports FindSimilar returns.
type SimilarityFilter struct {
	MinScore        float64 // Inclusive lower bound on similarity
	Limit           int     // Zero or less returns every hit
	IncludeResolved bool
}

// VectorSearcher provides similarity search over stored report vectors.
type VectorSearcher interface {
	// FindSimilar returns reports whose similarity to vector (cosine scaled
	// to [0, 100]) is at least filter.MinScore, up to filter.Limit results.
	// Resolved reports are skipped unless filter.IncludeResolved is set.
	// Reports without a vector of the same dimension are ignored.
	// Results are ordered by score (highest first), then ID ascending.
	FindSimilar(ctx context.Context, vector core.Vector, filter SimilarityFilter) ([]*core.SearchResult, error)
}

// RankSearchResults sorts results by score descending and ID ascending,
// then truncates to limit. A limit of zero or less keeps everything.
func RankSearchResults(results []*core.SearchResult, limit int) []*core.SearchResult {
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		switch {
		case a.Report.Id < b.Report.Id:
			return -1
		case a.Report.Id > b.Report.Id:
			return 1
		}
		return 0
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

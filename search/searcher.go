// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/embedding"
	"github.com/poiesic/lostfound/storage"
)

// MinSemanticScore is the similarity a report must exceed to be a
// semantic hit.
const MinSemanticScore = 75.0

// ShortcutScore is the score of every report listed by a keyword shortcut
// or found by verbatim matching.
const ShortcutScore = 100.0

// Searcher finds reports by free-text query.
type Searcher struct {
	repository storage.ReportRepository
	vectors    storage.VectorSearcher
	model      *embedding.Model
	logger     *slog.Logger

	includeResolved bool
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "searcher")
		return nil
	}
}

// WithResolved makes semantic and keyword searches return resolved reports.
// By default only open reports are searched.
func WithResolved(include bool) Option {
	return func(s *Searcher) error {
		s.includeResolved = include
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	repository storage.ReportRepository,
	vectors storage.VectorSearcher,
	model *embedding.Model,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorSearcherRequired
	}
	if model == nil {
		return nil, ErrModelRequired
	}

	s := &Searcher{
		repository: repository,
		vectors:    vectors,
		model:      model,
		logger:     slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to maxHits reports relevant to query, best first.
// A maxHits of zero or less returns every hit.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	query = core.NormalizeDescription(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	switch query {
	case "lost":
		return s.list(ctx, core.StatusLost, maxHits)
	case "found":
		return s.list(ctx, core.StatusFound, maxHits)
	case "all":
		return s.list(ctx, 0, maxHits)
	}

	vector, err := s.model.Embed(ctx, query)
	if embedding.IsUnavailable(err) {
		s.logger.Warn("embedding model unavailable, using keyword search", "err", err)
		return s.verbatim(ctx, query, maxHits)
	}
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.vectors.FindSimilar(ctx, vector, storage.SimilarityFilter{
		MinScore:        MinSemanticScore,
		IncludeResolved: s.includeResolved,
	})
	if err != nil {
		s.logger.Error("error querying for similar reports", "err", err)
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	// FindSimilar is inclusive; hits must exceed the minimum.
	results := make([]*core.SearchResult, 0, len(matches))
	for _, m := range matches {
		if m.Score > MinSemanticScore {
			results = append(results, m)
		}
	}
	return storage.RankSearchResults(results, maxHits), nil
}

// list returns reports with status, or every report for status zero.
// Resolved reports are included.
func (s *Searcher) list(ctx context.Context, status core.Status, maxHits int) ([]*core.SearchResult, error) {
	reports, err := s.repository.ListReports(ctx, storage.ListFilter{
		Status:          status,
		IncludeResolved: true,
		Limit:           maxHits,
	})
	if err != nil {
		return nil, err
	}
	results := make([]*core.SearchResult, len(reports))
	for i, r := range reports {
		results[i] = &core.SearchResult{Report: r, Score: ShortcutScore}
	}
	return results, nil
}

// verbatim returns reports containing every significant query word.
func (s *Searcher) verbatim(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	reports, err := s.repository.ListReports(ctx, storage.ListFilter{IncludeResolved: s.includeResolved})
	if err != nil {
		return nil, err
	}
	var results []*core.SearchResult
	for _, r := range reports {
		if containsAllWords(r.Description, query) {
			results = append(results, &core.SearchResult{Report: r, Score: ShortcutScore})
		}
	}
	return storage.RankSearchResults(results, maxHits), nil
}

// IsShortcut reports whether query lists reports instead of searching.
func IsShortcut(query string) bool {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "lost", "found", "all":
		return true
	}
	return false
}

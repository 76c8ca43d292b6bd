package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/ai"
	"github.com/poiesic/lostfound/ai/mock"
	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/embedding"
	"github.com/poiesic/lostfound/storage/badger"
)

func setupSearcher(t *testing.T, loader embedding.Loader, opts ...Option) (*Searcher, *badger.ReportRepository) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	model, err := embedding.NewModel(loader)
	require.NoError(t, err)
	s, err := NewSearcher(repo, repo, model, opts...)
	require.NoError(t, err)
	return s, repo
}

func addReport(t *testing.T, repo *badger.ReportRepository, description string, status core.Status) *core.Report {
	t.Helper()
	report, err := repo.CreateReport(context.Background(), &core.Report{
		Name:        "tester",
		Contact:     "tester@example.com",
		Description: description,
		Status:      status,
		Analysis: core.Analysis{
			Vector:      core.Vector(mock.BagOfWordsVector(description, mock.DefaultDimension)),
			Category:    core.CategoryOther,
			Fingerprint: core.Fingerprint(description),
		},
	})
	require.NoError(t, err)
	return report
}

func TestSearch_Shortcuts(t *testing.T) {
	s, repo := setupSearcher(t, embedding.StaticLoader(mock.NewMockEmbedder()))
	ctx := context.Background()

	lost := addReport(t, repo, "black wallet", core.StatusLost)
	found := addReport(t, repo, "red bicycle", core.StatusFound)
	resolved := addReport(t, repo, "blue umbrella", core.StatusLost)
	require.NoError(t, repo.SetResolved(ctx, resolved.Id, true))

	results, err := s.Search(ctx, "Lost", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.ID{lost.Id, resolved.Id}, ids(results))
	for _, r := range results {
		assert.Equal(t, ShortcutScore, r.Score)
	}

	results, err = s.Search(ctx, "found", 0)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{found.Id}, ids(results))

	results, err = s.Search(ctx, " ALL ", 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = s.Search(ctx, "all", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_Semantic(t *testing.T) {
	s, repo := setupSearcher(t, embedding.StaticLoader(mock.NewMockEmbedder()))
	ctx := context.Background()

	phone := addReport(t, repo, "black iphone 12", core.StatusLost)
	addReport(t, repo, "red bicycle", core.StatusFound)

	results, err := s.Search(ctx, "Black iPhone", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, phone.Id, results[0].Report.Id)
	assert.Greater(t, results[0].Score, MinSemanticScore)

	results, err = s.Search(ctx, "green scarf", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_RankedBestFirst(t *testing.T) {
	s, repo := setupSearcher(t, embedding.StaticLoader(mock.NewMockEmbedder()))
	ctx := context.Background()

	partial := addReport(t, repo, "black iphone 12 pro", core.StatusLost)
	exact := addReport(t, repo, "black iphone 12", core.StatusFound)

	results, err := s.Search(ctx, "black iphone 12", 0)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{exact.Id, partial.Id}, ids(results))
}

func TestSearch_FallsBackToKeywords(t *testing.T) {
	s, repo := setupSearcher(t, func(ctx context.Context) (ai.Embedder, error) {
		return nil, errors.New("connection refused")
	})
	ctx := context.Background()

	hit := addReport(t, repo, "black iphone 12 found near library", core.StatusFound)
	addReport(t, repo, "black wallet", core.StatusLost)

	results, err := s.Search(ctx, "iPhone near the library", 0)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{hit.Id}, ids(results))
}

func TestSearch_ResolvedReports(t *testing.T) {
	ctx := context.Background()
	down := func(ctx context.Context) (ai.Embedder, error) {
		return nil, errors.New("connection refused")
	}

	tests := []struct {
		name    string
		loader  embedding.Loader
		include bool
		want    int
	}{
		{"semantic skips resolved", embedding.StaticLoader(mock.NewMockEmbedder()), false, 1},
		{"semantic includes resolved", embedding.StaticLoader(mock.NewMockEmbedder()), true, 2},
		{"keywords skip resolved", down, false, 1},
		{"keywords include resolved", down, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := setupSearcher(t, tt.loader, WithResolved(tt.include))
			open := addReport(t, repo, "black iphone 12", core.StatusLost)
			returned := addReport(t, repo, "black iphone 12", core.StatusFound)
			require.NoError(t, repo.SetResolved(ctx, returned.Id, true))

			results, err := s.Search(ctx, "black iphone 12", 0)
			require.NoError(t, err)
			require.Len(t, results, tt.want)
			assert.Equal(t, open.Id, results[0].Report.Id)
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s, _ := setupSearcher(t, embedding.StaticLoader(mock.NewMockEmbedder()))
	_, err := s.Search(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNewSearcher_Validation(t *testing.T) {
	_, err := NewSearcher(nil, nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestIsShortcut(t *testing.T) {
	assert.True(t, IsShortcut(" Found "))
	assert.False(t, IsShortcut("found wallet"))
}

func TestContainsAllWords(t *testing.T) {
	assert.True(t, containsAllWords("black iphone 12, found near library", "the iphone near library"))
	assert.False(t, containsAllWords("black iphone 12", "white iphone"))
	assert.False(t, containsAllWords("black iphone 12", "the lost"))
	assert.True(t, containsAllWords("usb-c charger", "usb-c"))
}

func ids(results []*core.SearchResult) []core.ID {
	out := make([]core.ID, len(results))
	for i, r := range results {
		out[i] = r.Report.Id
	}
	return out
}

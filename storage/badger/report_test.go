package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/storage"
)

func newReport(description string, status core.Status) *core.Report {
	return &core.Report{
		Name:        "someone",
		Contact:     "someone@example.com",
		Description: description,
		Status:      status,
		Analysis: core.Analysis{
			Vector:      core.Vector{1, 0, 0},
			Category:    core.CategoryOther,
			Fingerprint: core.Fingerprint(description),
		},
	}
}

func setupRepo(t *testing.T) *ReportRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestCreateAndGetReport(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	report := newReport("black iphone 12", core.StatusLost)
	report.Entities = core.EntitySet{core.EntityBrand: "apple"}

	created, err := repo.CreateReport(ctx, report)
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetReport(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "black iphone 12", got.Description)
	assert.Equal(t, core.StatusLost, got.Status)
	assert.Equal(t, "apple", got.Entities[core.EntityBrand])
	assert.True(t, got.Vector.Equal(report.Vector))

	_, err = repo.GetReport(ctx, created.Id+100)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetCandidates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	lost, err := repo.CreateReport(ctx, newReport("black wallet", core.StatusLost))
	require.NoError(t, err)
	found1, err := repo.CreateReport(ctx, newReport("black wallet near gym", core.StatusFound))
	require.NoError(t, err)
	found2, err := repo.CreateReport(ctx, newReport("brown wallet", core.StatusFound))
	require.NoError(t, err)
	resolved, err := repo.CreateReport(ctx, newReport("wallet", core.StatusFound))
	require.NoError(t, err)
	require.NoError(t, repo.SetResolved(ctx, resolved.Id, true))

	candidates, err := repo.GetCandidates(ctx, core.StatusFound, lost.Id)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "resolved reports are not candidates")
	assert.Equal(t, found1.Id, candidates[0].Id)
	assert.Equal(t, found2.Id, candidates[1].Id)

	candidates, err = repo.GetCandidates(ctx, core.StatusFound, found1.Id)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "excluded report is skipped")
	assert.Equal(t, found2.Id, candidates[0].Id)

	candidates, err = repo.GetCandidates(ctx, core.StatusLost, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, lost.Id, candidates[0].Id)
}

func TestUpdateMatchedFlags(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a, err := repo.CreateReport(ctx, newReport("keys", core.StatusLost))
	require.NoError(t, err)
	b, err := repo.CreateReport(ctx, newReport("keychain", core.StatusFound))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateMatchedFlags(ctx, a.Id, b.Id))
	// Idempotent
	require.NoError(t, repo.UpdateMatchedFlags(ctx, a.Id))

	for _, id := range []core.ID{a.Id, b.Id} {
		got, err := repo.GetReport(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Matched)
	}

	err = repo.UpdateMatchedFlags(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateComputedFieldsAndDescription(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	report, err := repo.CreateReport(ctx, newReport("black wallet", core.StatusLost))
	require.NoError(t, err)

	analysis := core.Analysis{
		Vector:      core.Vector{0, 1, 0},
		Entities:    core.EntitySet{core.EntityColor: "black", core.EntityItemType: "wallet"},
		Category:    core.CategoryWallet,
		Fingerprint: core.Fingerprint("black wallet"),
	}
	require.NoError(t, repo.UpdateComputedFields(ctx, report.Id, analysis))

	got, err := repo.GetReport(ctx, report.Id)
	require.NoError(t, err)
	assert.Equal(t, "black wallet", got.Description)
	assert.Equal(t, core.CategoryWallet, got.Category)
	assert.True(t, got.Vector.Equal(analysis.Vector))

	edited := core.Analysis{
		Vector:      core.Vector{0, 0, 1},
		Entities:    core.EntitySet{core.EntityItemType: "bag"},
		Category:    core.CategoryBag,
		Fingerprint: core.Fingerprint("blue backpack"),
		Model:       "minilm",
	}
	require.NoError(t, repo.UpdateDescription(ctx, report.Id, "blue backpack", edited))

	got, err = repo.GetReport(ctx, report.Id)
	require.NoError(t, err)
	assert.Equal(t, "blue backpack", got.Description)
	assert.Equal(t, core.CategoryBag, got.Category)
	assert.Equal(t, "minilm", got.Model)
	assert.True(t, got.IsCurrent("blue backpack", core.EmbeddingModel{Name: "minilm", Dimension: 3}))
	assert.False(t, got.IsCurrent("blue backpack", core.EmbeddingModel{Name: "mpnet", Dimension: 3}))

	assert.ErrorIs(t, repo.UpdateComputedFields(ctx, 12345, analysis), storage.ErrNotFound)
}

func TestListReports(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i, item := range []struct {
		desc   string
		status core.Status
	}{
		{"black wallet", core.StatusLost},
		{"red umbrella", core.StatusFound},
		{"silver watch", core.StatusLost},
	} {
		r := newReport(item.desc, item.status)
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := repo.CreateReport(ctx, r)
		require.NoError(t, err)
	}

	all, err := repo.ListReports(ctx, storage.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "silver watch", all[0].Description, "newest first")

	lost, err := repo.ListReports(ctx, storage.ListFilter{Status: core.StatusLost})
	require.NoError(t, err)
	assert.Len(t, lost, 2)

	require.NoError(t, repo.SetResolved(ctx, all[0].Id, true))
	open, err := repo.ListReports(ctx, storage.ListFilter{Status: core.StatusLost})
	require.NoError(t, err)
	assert.Len(t, open, 1)
	withResolved, err := repo.ListReports(ctx, storage.ListFilter{Status: core.StatusLost, IncludeResolved: true})
	require.NoError(t, err)
	assert.Len(t, withResolved, 2)

	limited, err := repo.ListReports(ctx, storage.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteReport(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	report, err := repo.CreateReport(ctx, newReport("black wallet", core.StatusLost))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteReport(ctx, report.Id))
	_, err = repo.GetReport(ctx, report.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	candidates, err := repo.GetCandidates(ctx, core.StatusLost, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates, "status index entry is removed")

	assert.ErrorIs(t, repo.DeleteReport(ctx, report.Id), storage.ErrNotFound)
}

func TestFindSimilar(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	near := newReport("black wallet", core.StatusLost)
	near.Vector = core.Vector{1, 0.1, 0}
	far := newReport("red bicycle", core.StatusFound)
	far.Vector = core.Vector{0, 0, 1}
	noVector := newReport("legacy", core.StatusFound)
	noVector.Vector = nil

	for _, r := range []*core.Report{near, far, noVector} {
		_, err := repo.CreateReport(ctx, r)
		require.NoError(t, err)
	}

	results, err := repo.FindSimilar(ctx, core.Vector{1, 0, 0}, storage.SimilarityFilter{MinScore: 75, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, near.Id, results[0].Report.Id)
	assert.Greater(t, results[0].Score, 99.0)

	results, err = repo.FindSimilar(ctx, core.Vector{1, 0, 0}, storage.SimilarityFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1, "limit is applied")

	require.NoError(t, repo.SetResolved(ctx, near.Id, true))
	results, err = repo.FindSimilar(ctx, core.Vector{1, 0, 0}, storage.SimilarityFilter{MinScore: 75})
	require.NoError(t, err)
	assert.Empty(t, results, "resolved reports are skipped by default")

	results, err = repo.FindSimilar(ctx, core.Vector{1, 0, 0}, storage.SimilarityFilter{MinScore: 75, IncludeResolved: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, near.Id, results[0].Report.Id)
}

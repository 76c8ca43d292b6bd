package backfill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/ai/mock"
	"github.com/poiesic/lostfound/core"
)

func TestReportIterator_Collect(t *testing.T) {
	repo, _ := setupBackfill(t, mock.NewMockEmbedder())
	ctx := context.Background()

	var ids []core.ID
	for _, d := range []string{"black wallet", "red umbrella", "silver watch", "brown keys"} {
		ids = append(ids, store(t, repo, d, core.Analysis{}).Id)
	}
	require.NoError(t, repo.SetResolved(ctx, ids[1], true))

	all, err := NewReportIterator(repo, 0, nil).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, r := range all {
		assert.Equal(t, ids[i], r.Id)
	}

	watches, err := NewReportIterator(repo, 10, func(r *core.Report) bool {
		return r.Description == "silver watch"
	}).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, watches, 1)
	assert.Equal(t, ids[2], watches[0].Id)
}

func TestReportIterator_BatchSize(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, NewReportIterator(nil, 0, nil).BatchSize())
	assert.Equal(t, 7, NewReportIterator(nil, 7, nil).BatchSize())
}

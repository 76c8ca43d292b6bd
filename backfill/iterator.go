package backfill

import (
	"context"
	"slices"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/storage"
)

// DefaultBatchSize is the default number of reports per batch.
const DefaultBatchSize = 50

// ReportIterator selects stored reports, resolved ones included, in ID order.
type ReportIterator struct {
	repo      storage.ReportRepository
	batchSize int
	filter    func(*core.Report) bool
}

// NewReportIterator creates an iterator. Reports for which filter returns
// false are skipped; a nil filter keeps everything.
func NewReportIterator(repo storage.ReportRepository, batchSize int, filter func(*core.Report) bool) *ReportIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ReportIterator{repo: repo, batchSize: batchSize, filter: filter}
}

// BatchSize returns the number of reports per batch.
func (it *ReportIterator) BatchSize() int {
	return it.batchSize
}

// Collect returns every report that passes the filter, in ID order.
func (it *ReportIterator) Collect(ctx context.Context) ([]*core.Report, error) {
	reports, err := it.repo.ListReports(ctx, storage.ListFilter{IncludeResolved: true})
	if err != nil {
		return nil, err
	}
	if it.filter != nil {
		reports = slices.DeleteFunc(reports, func(r *core.Report) bool { return !it.filter(r) })
	}
	slices.SortFunc(reports, func(a, b *core.Report) int {
		switch {
		case a.Id < b.Id:
			return -1
		case a.Id > b.Id:
			return 1
		}
		return 0
	})
	return reports, nil
}

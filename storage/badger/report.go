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


package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/storage"
)

// ReportRepository implements storage.ReportRepository on BadgerDB.
type ReportRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var (
	_ storage.ReportRepository = (*ReportRepository)(nil)
	_ storage.VectorSearcher   = (*ReportRepository)(nil)
)

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(backend *Backend) (*ReportRepository, error) {
	idSeq, err := backend.GetSequence(reportIDSeq)
	if err != nil {
		return nil, err
	}

	return &ReportRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ReportRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ReportRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateReport stores a new report.
func (r *ReportRepository) CreateReport(ctx context.Context, report *core.Report) (*core.Report, error) {
	nextID, err := r.idSeq.Next()
	if err != nil {
		return nil, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return nil, err
		}
	}

	err = r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		report.Id = core.ID(nextID)
		if report.CreatedAt.IsZero() {
			report.CreatedAt = time.Now().UTC()
		}
		report.UpdatedAt = report.CreatedAt

		if err := tx.Set(makeReportKey(report.Id), storage.MarshalReport(report)); err != nil {
			return err
		}
		return tx.Set(makeStatusKey(report.Status, report.Id), storage.MarshalID(report.Id))
	}, true)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetReport retrieves a single report by ID.
func (r *ReportRepository) GetReport(ctx context.Context, id core.ID) (*core.Report, error) {
	var result *core.Report
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = r.readReport(tx, id)
		return err
	}, false)
	return result, err
}

// ListReports returns reports matching filter, newest first.
func (r *ReportRepository) ListReports(ctx context.Context, filter storage.ListFilter) ([]*core.Report, error) {
	var results []*core.Report
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.scanReports(tx, func(report *core.Report) error {
			if filter.Status != 0 && report.Status != filter.Status {
				return nil
			}
			if report.Resolved && !filter.IncludeResolved {
				return nil
			}
			results = append(results, report)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.Id, a.Id)
	})
	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}
	return results, nil
}

// GetCandidates returns unresolved reports with status, excluding excludeID.
// Walks the status index so results come back in ID order.
func (r *ReportRepository) GetCandidates(ctx context.Context, status core.Status, excludeID core.ID) ([]*core.Report, error) {
	var results []*core.Report
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialStatusKey(status)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, ok := idFromStatusKey(iter.Item().Key())
			if !ok || id == excludeID {
				continue
			}
			report, err := r.readReport(tx, id)
			if errors.Is(err, storage.ErrNotFound) {
				// Dangling index entry
				continue
			}
			if err != nil {
				return err
			}
			if report.Resolved {
				continue
			}
			results = append(results, report)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateMatchedFlags sets Matched on every listed report.
func (r *ReportRepository) UpdateMatchedFlags(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			err := r.modifyReport(tx, id, func(report *core.Report) bool {
				if report.Matched {
					return false
				}
				report.Matched = true
				return true
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// UpdateComputedFields replaces a report's computed fields.
func (r *ReportRepository) UpdateComputedFields(ctx context.Context, id core.ID, analysis core.Analysis) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.modifyReport(tx, id, func(report *core.Report) bool {
			report.Analysis = analysis
			return true
		})
	}, true)
}

// UpdateDescription replaces a report's description and computed fields.
func (r *ReportRepository) UpdateDescription(ctx context.Context, id core.ID, description string, analysis core.Analysis) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.modifyReport(tx, id, func(report *core.Report) bool {
			report.Description = description
			report.Analysis = analysis
			return true
		})
	}, true)
}

// SetResolved sets or clears the resolved flag.
func (r *ReportRepository) SetResolved(ctx context.Context, id core.ID, resolved bool) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.modifyReport(tx, id, func(report *core.Report) bool {
			if report.Resolved == resolved {
				return false
			}
			report.Resolved = resolved
			return true
		})
	}, true)
}

// DeleteReport removes a report and its status index entry.
func (r *ReportRepository) DeleteReport(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		report, err := r.readReport(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(makeStatusKey(report.Status, report.Id)); err != nil {
			return err
		}
		return tx.Delete(makeReportKey(report.Id))
	}, true)
}

// FindSimilar returns reports whose vector has cosine similarity (scaled to
// [0, 100]) of at least filter.MinScore with vector.
// Implements storage.VectorSearcher interface.
func (r *ReportRepository) FindSimilar(ctx context.Context, vector core.Vector, filter storage.SimilarityFilter) ([]*core.SearchResult, error) {
	var results []*core.SearchResult
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.scanReports(tx, func(report *core.Report) error {
			if (report.Resolved && !filter.IncludeResolved) || report.Vector.Dim() != vector.Dim() {
				return nil
			}
			score := core.Similarity(vector, report.Vector)
			if score >= filter.MinScore {
				results = append(results, &core.SearchResult{Report: report, Score: score})
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return storage.RankSearchResults(results, filter.Limit), nil
}

// readReport reads a report by ID, returning ErrNotFound if it is missing.
func (r *ReportRepository) readReport(tx *badger.Txn, id core.ID) (*core.Report, error) {
	item, err := tx.Get(makeReportKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var report *core.Report
	err = item.Value(func(val []byte) error {
		var err error
		report, err = storage.UnmarshalReport(val)
		return err
	})
	return report, err
}

// modifyReport reads a report, applies fn and writes it back if fn
// reports a change.
func (r *ReportRepository) modifyReport(tx *badger.Txn, id core.ID, fn func(report *core.Report) bool) error {
	report, err := r.readReport(tx, id)
	if err != nil {
		return err
	}
	if !fn(report) {
		return nil
	}
	report.UpdatedAt = time.Now().UTC()
	return tx.Set(makeReportKey(report.Id), storage.MarshalReport(report))
}

// scanReports calls fn for every stored report.
func (r *ReportRepository) scanReports(tx *badger.Txn, fn func(report *core.Report) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = reportKeyPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var report *core.Report
		err := iter.Item().Value(func(val []byte) error {
			var err error
			report, err = storage.UnmarshalReport(val)
			return err
		})
		if err != nil {
			return err
		}
		if err := fn(report); err != nil {
			return err
		}
	}
	return nil
}

func compareIDs(a, b core.ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

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


package backfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/poiesic/lostfound/analysis"
	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/storage"
)

// Config holds configuration for a backfill run.
type Config struct {
	// BatchSize is the number of reports embedded per model call
	BatchSize int

	// Workers is the number of batches processed concurrently
	Workers int

	// RequestsPerSecond caps model calls. Zero or less means unlimited.
	RequestsPerSecond float64

	// Burst is the number of model calls allowed at once
	Burst int

	// ReportInterval is how often to report progress (number of reports)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force recomputes every report, current or not
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:         DefaultBatchSize,
		Workers:           max(runtime.NumCPU()/2, 1),
		RequestsPerSecond: 0,
		Burst:             1,
		ReportInterval:    50,
		MaxRetries:        3,
		RetryDelay:        1 * time.Second,
	}
}

// Result summarizes a backfill run.
type Result struct {
	Scanned    int // Reports inspected
	Stale      int // Reports needing recomputation
	Recomputed int
	Skipped    int // Edited while the run was in progress
	Failed     int
	Elapsed    time.Duration
}

// Backfiller recomputes stale derived fields of stored reports.
type Backfiller struct {
	repo     storage.ReportRepository
	analyzer *analysis.Analyzer
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Backfiller.
type Option func(*Backfiller) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(b *Backfiller) error {
		if config != nil {
			b.config = config
		}
		return nil
	}
}

// WithProgress sets where progress lines are written (typically os.Stderr).
func WithProgress(w io.Writer) Option {
	return func(b *Backfiller) error {
		b.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backfiller) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger.With("component", "backfill")
		return nil
	}
}

// NewBackfiller creates a new backfiller.
func NewBackfiller(repo storage.ReportRepository, analyzer *analysis.Analyzer, opts ...Option) (*Backfiller, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	b := &Backfiller{
		repo:     repo,
		analyzer: analyzer,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default().With("component", "backfill"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NeedsBackfill reports whether a report's derived fields must be recomputed
// for model.
func NeedsBackfill(report *core.Report, model core.EmbeddingModel) bool {
	return !report.Analysis.IsCurrent(report.Description, model)
}

// Run recomputes every stale report. A batch that keeps failing is counted
// and logged; the run carries on with the remaining batches.
func (b *Backfiller) Run(ctx context.Context) (*Result, error) {
	model, err := b.analyzer.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading embedding model: %w", err)
	}

	var scanned int
	iterator := NewReportIterator(b.repo, b.config.BatchSize, func(r *core.Report) bool {
		scanned++
		return b.config.Force || NeedsBackfill(r, model)
	})
	stale, err := iterator.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	result := &Result{Scanned: scanned, Stale: len(stale)}
	if len(stale) == 0 {
		fmt.Fprintf(b.progress, "No reports need backfilling (%d scanned)\n", scanned)
		return result, nil
	}

	fmt.Fprintf(b.progress, "Backfilling %d of %d reports (batch size: %d, workers: %d)\n",
		len(stale), scanned, b.config.BatchSize, b.config.Workers)

	pool, err := ants.NewPool(max(b.config.Workers, 1))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	limit := rate.Inf
	if b.config.RequestsPerSecond > 0 {
		limit = rate.Limit(b.config.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, max(b.config.Burst, 1))

	tracker := NewProgressTracker(b.progress, len(stale), b.config.ReportInterval)
	tracker.Start()

	var (
		wg                          sync.WaitGroup
		recomputed, skipped, failed atomic.Int64
	)
	for batch := range slices.Chunk(stale, iterator.BatchSize()) {
		if err = ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			ok, skip, err := b.processBatch(ctx, limiter, batch)
			recomputed.Add(int64(ok))
			skipped.Add(int64(skip))
			if err != nil {
				failed.Add(int64(len(batch) - ok - skip))
				b.logger.Error("batch failed", "size", len(batch), "first_id", batch[0].Id, "err", err)
			}
			tracker.Add(ok+skip, len(batch)-ok-skip)
		})
		if err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()
	tracker.Finish()

	result.Recomputed = int(recomputed.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())
	result.Elapsed = tracker.Elapsed()
	if err != nil {
		return result, err
	}

	fmt.Fprintf(b.progress, "Backfill complete. Recomputed %d reports in %v (%d failed, %d skipped)\n",
		result.Recomputed, result.Elapsed.Round(time.Millisecond), result.Failed, result.Skipped)
	return result, nil
}

// processBatch analyzes a batch and saves the results. It returns how many
// reports were saved and how many were skipped because their description
// changed in the meantime.
func (b *Backfiller) processBatch(ctx context.Context, limiter *rate.Limiter, batch []*core.Report) (int, int, error) {
	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = r.Description
	}

	var analyses []core.Analysis
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		analyses, err = b.analyzer.AnalyzeBatch(ctx, texts)
		return err
	}, max(b.config.MaxRetries, 1), b.config.RetryDelay)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to analyze batch after %d attempts: %w", b.config.MaxRetries, err)
	}

	saved, skipped := 0, 0
	for i, report := range batch {
		err := b.save(ctx, report.Id, analyses[i])
		switch {
		case errors.Is(err, errDescriptionChanged), errors.Is(err, storage.ErrNotFound):
			skipped++
		case err != nil:
			return saved, skipped, fmt.Errorf("failed to update report %d: %w", report.Id, err)
		default:
			saved++
		}
	}
	return saved, skipped, nil
}

var errDescriptionChanged = errors.New("description changed during backfill")

// save writes computed unless the report was edited or deleted since it was read.
func (b *Backfiller) save(ctx context.Context, id core.ID, computed core.Analysis) error {
	return b.repo.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := b.repo.GetReport(ctx, id)
		if err != nil {
			return err
		}
		if core.Fingerprint(current.Description) != computed.Fingerprint {
			return errDescriptionChanged
		}
		return b.repo.UpdateComputedFields(ctx, id, computed)
	})
}

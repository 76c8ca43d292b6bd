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


package matching

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/lostfound/analysis"
	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/notify"
	"github.com/poiesic/lostfound/scoring"
	"github.com/poiesic/lostfound/storage"
)

// MatchThreshold is the minimum total score of a match.
const MatchThreshold = 85.0

// Engine finds matching reports and records the matches.
type Engine struct {
	repository storage.ReportRepository
	analyzer   *analysis.Analyzer
	scorer     *scoring.Scorer
	notifier   notify.Notifier
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "match-engine")
		return nil
	}
}

// WithScorer replaces the default scorer.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(e *Engine) error {
		if scorer != nil {
			e.scorer = scorer
		}
		return nil
	}
}

// WithNotifier sets where match events are delivered.
// Default logs them.
func WithNotifier(notifier notify.Notifier) Option {
	return func(e *Engine) error {
		if notifier != nil {
			e.notifier = notifier
		}
		return nil
	}
}

// NewEngine creates a new match engine.
func NewEngine(repository storage.ReportRepository, analyzer *analysis.Analyzer, opts ...Option) (*Engine, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	e := &Engine{
		repository: repository,
		analyzer:   analyzer,
		scorer:     scoring.NewScorer(),
		logger:     slog.Default().With("component", "match-engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.notifier == nil {
		e.notifier = notify.NewLogNotifier(e.logger)
	}
	return e, nil
}

// FindMatches runs a match pass for report.
// Returns matches ordered by score descending, then candidate ID ascending.
func (e *Engine) FindMatches(ctx context.Context, report *core.Report) ([]core.MatchResult, error) {
	return e.FindMatchesWithMonitor(ctx, report, nil)
}

// FindMatchesWithMonitor runs a match pass, reporting each step to monitor.
//
// Candidates with stale or missing computed fields are recomputed and saved.
// A candidate that cannot be analyzed is skipped. If report itself cannot be
// embedded the pass does not run and the error wraps ErrMatchingSkipped.
//
// The report and all matched candidates are marked matched. A report with a
// zero ID is treated as an unsaved query and is not marked.
func (e *Engine) FindMatchesWithMonitor(ctx context.Context, report *core.Report, monitor MatchMonitor) ([]core.MatchResult, error) {
	if report == nil {
		return nil, ErrNilReport
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	start := time.Now()
	monitor.Start(report)

	model, err := e.analyzer.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchingSkipped, err)
	}

	queryStale := !report.Analysis.IsCurrent(report.Description, model)
	if queryStale {
		computed, err := e.analyzer.Analyze(ctx, report.Description)
		if err != nil {
			return nil, fmt.Errorf("%w: report %d: %w", ErrMatchingSkipped, report.Id, err)
		}
		report.Analysis = computed
	}
	query := scoring.FeaturesOf(report)

	var results []core.MatchResult
	err = e.repository.WithTransaction(ctx, func(ctx context.Context) error {
		// The store may retry this function.
		results = nil

		if queryStale && report.Id != 0 {
			if err := e.repository.UpdateComputedFields(ctx, report.Id, report.Analysis); err != nil {
				return fmt.Errorf("saving computed fields of report %d: %w", report.Id, err)
			}
		}

		candidates, err := e.repository.GetCandidates(ctx, report.Status.Opposite(), report.Id)
		if err != nil {
			return fmt.Errorf("loading candidates: %w", err)
		}
		monitor.AfterCandidateRetrieval(candidates)

		for _, candidate := range candidates {
			if err := e.ensureCurrent(ctx, candidate, model, monitor); err != nil {
				e.logger.Warn("skipping candidate", "report_id", report.Id, "candidate_id", candidate.Id, "err", err)
				monitor.CandidateSkipped(candidate, err)
				continue
			}

			breakdown := e.scorer.Score(query, scoring.FeaturesOf(candidate))
			matched := breakdown.Total() >= MatchThreshold
			monitor.CandidateScored(candidate, breakdown, matched)
			if matched {
				results = append(results, core.MatchResult{
					Candidate: candidate,
					Score:     breakdown.Total(),
					Breakdown: breakdown,
				})
			}
		}

		if len(results) == 0 {
			return nil
		}
		SortResults(results)
		return e.repository.UpdateMatchedFlags(ctx, matchedIDs(report, results)...)
	})
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if report.Id != 0 {
			report.Matched = true
		}
		for _, r := range results {
			r.Candidate.Matched = true
		}
		e.notify(ctx, report, results)
	}

	e.logger.Debug("match pass complete",
		"report_id", report.Id,
		"status", report.Status.String(),
		"matches", len(results),
		"elapsed", time.Since(start),
	)
	monitor.Finish(results)
	return results, nil
}

// ensureCurrent recomputes and saves candidate's computed fields when they
// were not derived from its current description by the loaded model.
func (e *Engine) ensureCurrent(ctx context.Context, candidate *core.Report, model core.EmbeddingModel, monitor MatchMonitor) error {
	if candidate.Analysis.IsCurrent(candidate.Description, model) {
		return nil
	}

	computed, err := e.analyzer.Analyze(ctx, candidate.Description)
	if err != nil {
		return fmt.Errorf("recomputing candidate %d: %w", candidate.Id, err)
	}
	if err := e.repository.UpdateComputedFields(ctx, candidate.Id, computed); err != nil {
		return fmt.Errorf("saving candidate %d: %w", candidate.Id, err)
	}
	candidate.Analysis = computed
	monitor.CandidateRecomputed(candidate)
	return nil
}

func (e *Engine) notify(ctx context.Context, report *core.Report, results []core.MatchResult) {
	for _, event := range notify.Plan(report, results) {
		if err := e.notifier.SendMatchEvent(ctx, event); err != nil {
			e.logger.Warn("failed to deliver match event",
				"event_id", event.ID,
				"kind", event.Kind,
				"report_id", report.Id,
				"err", err,
			)
		}
	}
}

// SortResults orders results by score descending, then candidate ID ascending.
func SortResults(results []core.MatchResult) {
	slices.SortStableFunc(results, func(a, b core.MatchResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Candidate.Id, b.Candidate.Id)
	})
}

func matchedIDs(report *core.Report, results []core.MatchResult) []core.ID {
	ids := make([]core.ID, 0, len(results)+1)
	if report.Id != 0 {
		ids = append(ids, report.Id)
	}
	for _, r := range results {
		ids = append(ids, r.Candidate.Id)
	}
	return ids
}

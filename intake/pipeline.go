package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/lostfound/analysis"
	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/matching"
	"github.com/poiesic/lostfound/storage"
)

// Pipeline handles the lifecycle of reports: creation, edits and
// administration. Creation and edits run a match pass before returning.
type Pipeline struct {
	repository storage.ReportRepository
	analyzer   *analysis.Analyzer
	engine     *matching.Engine
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "intake")
		return nil
	}
}

// NewPipeline creates a new intake pipeline.
func NewPipeline(
	repository storage.ReportRepository,
	analyzer *analysis.Analyzer,
	engine *matching.Engine,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}

	p := &Pipeline{
		repository: repository,
		analyzer:   analyzer,
		engine:     engine,
		logger:     slog.Default().With("component", "intake"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Outcome is the result of a submission or edit.
type Outcome struct {
	Report  *core.Report
	Matches []core.MatchResult

	// MatchingSkipped is set when the report was saved but no match pass
	// ran, typically because the embedding model was unavailable.
	MatchingSkipped bool
	SkipReason      error
}

// Submit validates and stores a new report, then matches it against reports
// of the opposite status. Name and contact are stored trimmed.
//
// The report is stored even when it cannot be embedded; the outcome then has
// MatchingSkipped set and the report has no vector until it is edited or
// backfilled.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	sub = sub.Normalize()
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	description := core.NormalizeDescription(sub.Description)
	computed, embedErr := p.analyzer.Analyze(ctx, description)

	report := &core.Report{
		Name:        sub.Name,
		Contact:     sub.Contact,
		Description: description,
		Status:      sub.Status,
		Secret:      sub.Secret,
		OwnerID:     sub.OwnerID,
		Image:       sub.Image,
		Analysis:    computed,
	}
	if err := core.ValidateReport(report); err != nil {
		return nil, err
	}

	created, err := p.repository.CreateReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}
	p.logger.Info("report created",
		"report_id", created.Id,
		"status", created.Status.String(),
		"category", created.Category,
	)

	if embedErr != nil {
		return p.skipped(created, embedErr), nil
	}
	return p.match(ctx, created), nil
}

// Edit replaces the description of a report owned by ownerID, recomputes its
// derived fields and matches it again. Previously set matched flags stay set.
func (p *Pipeline) Edit(ctx context.Context, id core.ID, ownerID, description string) (*Outcome, error) {
	report, err := p.repository.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.OwnerID == "" || report.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	description = core.NormalizeDescription(description)
	if description == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, core.ErrEmptyDescription)
	}

	computed, embedErr := p.analyzer.Analyze(ctx, description)
	if err := p.repository.UpdateDescription(ctx, id, description, computed); err != nil {
		return nil, fmt.Errorf("updating report %d: %w", id, err)
	}

	updated, err := p.repository.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	p.logger.Info("report edited", "report_id", id, "category", updated.Category)

	if embedErr != nil {
		return p.skipped(updated, embedErr), nil
	}
	return p.match(ctx, updated), nil
}

// Rematch runs a match pass for an existing report.
func (p *Pipeline) Rematch(ctx context.Context, id core.ID) (*Outcome, error) {
	report, err := p.repository.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.match(ctx, report), nil
}

func (p *Pipeline) match(ctx context.Context, report *core.Report) *Outcome {
	matches, err := p.engine.FindMatches(ctx, report)
	if err != nil {
		return p.skipped(report, err)
	}
	if len(matches) > 0 {
		p.logger.Info("report matched", "report_id", report.Id, "matches", len(matches))
	}
	return &Outcome{Report: report, Matches: matches}
}

func (p *Pipeline) skipped(report *core.Report, cause error) *Outcome {
	level := slog.LevelWarn
	if !errors.Is(cause, matching.ErrMatchingSkipped) && !errors.Is(cause, context.Canceled) {
		level = slog.LevelError
	}
	p.logger.Log(context.Background(), level, "matching skipped", "report_id", report.Id, "err", cause)
	return &Outcome{Report: report, MatchingSkipped: true, SkipReason: cause}
}

// Get returns a report by ID.
func (p *Pipeline) Get(ctx context.Context, id core.ID) (*core.Report, error) {
	return p.repository.GetReport(ctx, id)
}

// List returns reports, newest first.
func (p *Pipeline) List(ctx context.Context, filter storage.ListFilter) ([]*core.Report, error) {
	return p.repository.ListReports(ctx, filter)
}

// Resolve marks a report as returned to its owner. Resolved reports are no
// longer match candidates.
func (p *Pipeline) Resolve(ctx context.Context, id core.ID) error {
	if err := p.repository.SetResolved(ctx, id, true); err != nil {
		return err
	}
	p.logger.Info("report resolved", "report_id", id)
	return nil
}

// Delete removes a report.
func (p *Pipeline) Delete(ctx context.Context, id core.ID) error {
	if err := p.repository.DeleteReport(ctx, id); err != nil {
		return err
	}
	p.logger.Info("report deleted", "report_id", id)
	return nil
}

// Stats counts reports by status and flag.
func (p *Pipeline) Stats(ctx context.Context) (core.Stats, error) {
	reports, err := p.repository.ListReports(ctx, storage.ListFilter{IncludeResolved: true})
	if err != nil {
		return core.Stats{}, err
	}

	var stats core.Stats
	for _, r := range reports {
		stats.Total++
		switch r.Status {
		case core.StatusLost:
			stats.Lost++
		case core.StatusFound:
			stats.Found++
		}
		if r.Resolved {
			stats.Resolved++
		}
		if r.Matched {
			stats.Matched++
		}
	}
	return stats, nil
}

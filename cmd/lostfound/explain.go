package main

import (
	"fmt"
	"io"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/matching"
)

// explainMonitor prints each step of a match pass.
type explainMonitor struct {
	w io.Writer
}

var _ matching.MatchMonitor = (*explainMonitor)(nil)

func newExplainMonitor(w io.Writer) *explainMonitor {
	return &explainMonitor{w: w}
}

func (m *explainMonitor) Start(report *core.Report) {
	fmt.Fprintf(m.w, "%s\n", cyan("=== Match pass ==="))
	printReport(m.w, report)
	fmt.Fprintln(m.w)
}

func (m *explainMonitor) AfterCandidateRetrieval(candidates []*core.Report) {
	fmt.Fprintf(m.w, "%s %d candidate(s)\n", yellow("Candidates:"), len(candidates))
}

func (m *explainMonitor) CandidateRecomputed(candidate *core.Report) {
	fmt.Fprintf(m.w, "  %s #%d recomputed stale fields\n", gray("~"), candidate.Id)
}

func (m *explainMonitor) CandidateSkipped(candidate *core.Report, err error) {
	fmt.Fprintf(m.w, "  %s #%d skipped: %v\n", red("✗"), candidate.Id, err)
}

func (m *explainMonitor) CandidateScored(candidate *core.Report, b core.ScoreBreakdown, matched bool) {
	icon, paint := gray("○"), gray
	if matched {
		icon, paint = green("●"), green
	}
	fmt.Fprintf(m.w, "  %s #%d %q\n", icon, candidate.Id, candidate.Description)
	fmt.Fprintf(m.w, "      similarity %5.1f  brand %+3.0f  color %+3.0f  type %+3.0f  category %+3.0f  = %s\n",
		b.Similarity, b.BrandBonus, b.ColorBonus, b.ItemTypeBonus, b.CategoryBonus,
		paint(fmt.Sprintf("%.1f", b.Total())))
}

func (m *explainMonitor) Finish(results []core.MatchResult) {
	fmt.Fprintln(m.w)
	fmt.Fprintf(m.w, "threshold %.0f\n", matching.MatchThreshold)
	printMatches(m.w, results)
}

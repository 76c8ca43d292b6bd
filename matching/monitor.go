package matching

import "github.com/poiesic/lostfound/core"

// MatchMonitor provides hooks to observe a match pass.
// Implement this interface to trace candidates and their scores.
//
// When the store retries a conflicting transaction, the candidate hooks fire
// again for the retried attempt.
type MatchMonitor interface {
	Start(report *core.Report)
	AfterCandidateRetrieval(candidates []*core.Report)
	CandidateRecomputed(candidate *core.Report)
	CandidateSkipped(candidate *core.Report, err error)
	CandidateScored(candidate *core.Report, breakdown core.ScoreBreakdown, matched bool)
	Finish(results []core.MatchResult)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.Report)                                          {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []*core.Report)                      {}
func (n *noopMonitor) CandidateRecomputed(_ *core.Report)                            {}
func (n *noopMonitor) CandidateSkipped(_ *core.Report, _ error)                      {}
func (n *noopMonitor) CandidateScored(_ *core.Report, _ core.ScoreBreakdown, _ bool) {}
func (n *noopMonitor) Finish(_ []core.MatchResult)                                   {}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/intake"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func printReport(w io.Writer, r *core.Report) {
	var flags []string
	if r.Matched {
		flags = append(flags, green("matched"))
	}
	if r.Resolved {
		flags = append(flags, gray("resolved"))
	}
	fmt.Fprintf(w, "%s %s %q %s\n", bold(fmt.Sprintf("#%d", r.Id)), statusLabel(r.Status), r.Description, strings.Join(flags, " "))
	fmt.Fprintf(w, "    %s  category=%s%s\n", gray(r.CreatedAt.Local().Format("2006-01-02 15:04")), r.Category, formatEntities(r.Entities))
}

func statusLabel(s core.Status) string {
	if s == core.StatusLost {
		return yellow(s.String())
	}
	return cyan(s.String())
}

func formatEntities(entities core.EntitySet) string {
	var b strings.Builder
	for _, kind := range []core.EntityKind{core.EntityBrand, core.EntityColor, core.EntityItemType} {
		if v, ok := entities.Get(kind); ok {
			fmt.Fprintf(&b, " %s=%s", kind, v)
		}
	}
	return b.String()
}

func printOutcome(w io.Writer, out *intake.Outcome) {
	printReport(w, out.Report)
	if out.MatchingSkipped {
		fmt.Fprintf(w, "%s matching skipped: %v\n", red("!"), out.SkipReason)
		return
	}
	printMatches(w, out.Matches)
}

func printMatches(w io.Writer, results []core.MatchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, gray("No matches"))
		return
	}
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("%d match(es):", len(results))))
	for _, m := range results {
		fmt.Fprintf(w, "  %s  #%d %q  %s <%s>\n",
			green(fmt.Sprintf("%6.1f", m.Score)), m.Candidate.Id, m.Candidate.Description,
			m.Candidate.Name, m.Candidate.Contact)
	}
}

func printSearchResults(w io.Writer, results []*core.SearchResult) {
	fmt.Fprintf(w, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(w, "%d: [%0.1f] ", i, hit.Score)
		printReport(w, hit.Report)
	}
}

func printStats(w io.Writer, s core.Stats) {
	fmt.Fprintf(w, "Total:    %d\n", s.Total)
	fmt.Fprintf(w, "Lost:     %d\n", s.Lost)
	fmt.Fprintf(w, "Found:    %d\n", s.Found)
	fmt.Fprintf(w, "Matched:  %d\n", s.Matched)
	fmt.Fprintf(w, "Resolved: %d\n", s.Resolved)
}

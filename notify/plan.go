package notify

import (
	"time"

	"github.com/poiesic/lostfound/core"
)

// Plan builds the events for one match pass of report.
//
// Every matched pair notifies the owner of the lost item. A new lost report
// also notifies each finder, with the owner's secret for verification. A new
// found report with several matches sends the finder one summary listing each
// lost report and its secret.
func Plan(report *core.Report, matches []core.MatchResult) []Event {
	if report == nil || len(matches) == 0 {
		return nil
	}

	now := time.Now().UTC()
	events := make([]Event, 0, 2*len(matches)+1)

	switch report.Status {
	case core.StatusLost:
		for _, m := range matches {
			finder := m.Candidate
			events = append(events, newEvent(KindSingleMatch, recipientOf(report), Payload{
				ReportID:           finder.Id,
				Description:        finder.Description,
				CounterpartName:    finder.Name,
				CounterpartContact: finder.Contact,
				Score:              m.Score,
			}, now))
			events = append(events, newEvent(KindSingleMatch, recipientOf(finder), Payload{
				ReportID:           report.Id,
				Description:        report.Description,
				CounterpartName:    report.Name,
				CounterpartContact: report.Contact,
				Secret:             report.Secret,
				Score:              m.Score,
			}, now))
		}

	case core.StatusFound:
		for _, m := range matches {
			owner := m.Candidate
			events = append(events, newEvent(KindSingleMatch, recipientOf(owner), Payload{
				ReportID:           report.Id,
				Description:        report.Description,
				CounterpartName:    report.Name,
				CounterpartContact: report.Contact,
				Score:              m.Score,
			}, now))
		}
		if len(matches) > 1 {
			events = append(events, newEvent(KindSummaryMatch, recipientOf(report), summaryPayload(report, matches), now))
		}
	}

	return events
}

func summaryPayload(report *core.Report, matches []core.MatchResult) Payload {
	entries := make([]SummaryEntry, len(matches))
	for i, m := range matches {
		entries[i] = SummaryEntry{
			ReportID:    m.Candidate.Id,
			Description: m.Candidate.Description,
			Name:        m.Candidate.Name,
			Contact:     m.Candidate.Contact,
			Secret:      m.Candidate.Secret,
			Score:       m.Score,
		}
	}
	return Payload{
		ReportID:    report.Id,
		Description: report.Description,
		Score:       matches[0].Score,
		Matches:     entries,
	}
}

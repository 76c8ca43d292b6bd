package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/core"
)

func lostReport() *core.Report {
	return &core.Report{
		Id: 1, Name: "Ana", Contact: "ana@example.com",
		Description: "black iphone 12", Status: core.StatusLost, Secret: "cracked corner",
	}
}

func foundReport(id core.ID, name string) *core.Report {
	return &core.Report{
		Id: id, Name: name, Contact: name + "@example.com",
		Description: "black iphone 12 found near library", Status: core.StatusFound,
	}
}

func TestPlan_LostReport(t *testing.T) {
	lost := lostReport()
	finder := foundReport(2, "ben")

	events := Plan(lost, []core.MatchResult{{Candidate: finder, Score: 140}})
	require.Len(t, events, 2)

	toOwner, toFinder := events[0], events[1]
	assert.Equal(t, KindSingleMatch, toOwner.Kind)
	assert.Equal(t, "ana@example.com", toOwner.Recipient.Contact)
	assert.Equal(t, core.ID(2), toOwner.Payload.ReportID)
	assert.Equal(t, "ben@example.com", toOwner.Payload.CounterpartContact)
	assert.Empty(t, toOwner.Payload.Secret)

	assert.Equal(t, KindSingleMatch, toFinder.Kind)
	assert.Equal(t, "ben@example.com", toFinder.Recipient.Contact)
	assert.Equal(t, "cracked corner", toFinder.Payload.Secret)
	assert.Equal(t, 140.0, toFinder.Payload.Score)

	for _, e := range events {
		_, err := uuid.Parse(e.ID)
		assert.NoError(t, err)
		assert.False(t, e.CreatedAt.IsZero())
	}
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestPlan_FoundReportSingleMatch(t *testing.T) {
	found := foundReport(5, "ben")
	owner := lostReport()

	events := Plan(found, []core.MatchResult{{Candidate: owner, Score: 120}})
	require.Len(t, events, 1)
	assert.Equal(t, KindSingleMatch, events[0].Kind)
	assert.Equal(t, "ana@example.com", events[0].Recipient.Contact)
	assert.Equal(t, "ben", events[0].Payload.CounterpartName)
}

func TestPlan_FoundReportSummary(t *testing.T) {
	found := foundReport(5, "ben")
	first := lostReport()
	second := &core.Report{Id: 3, Name: "Cy", Contact: "cy@example.com", Description: "iphone", Status: core.StatusLost}

	events := Plan(found, []core.MatchResult{
		{Candidate: first, Score: 140},
		{Candidate: second, Score: 95},
	})
	require.Len(t, events, 3)

	summary := events[2]
	assert.Equal(t, KindSummaryMatch, summary.Kind)
	assert.Equal(t, "ben@example.com", summary.Recipient.Contact)
	require.Len(t, summary.Payload.Matches, 2)
	assert.Equal(t, "cracked corner", summary.Payload.Matches[0].Secret)
	assert.Equal(t, 95.0, summary.Payload.Matches[1].Score)
}

func TestPlan_NoMatches(t *testing.T) {
	assert.Nil(t, Plan(lostReport(), nil))
	assert.Nil(t, Plan(nil, []core.MatchResult{{Candidate: lostReport()}}))
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := NewRecorder()
	failing := NewRecorder()
	boom := errors.New("broker down")
	failing.FailWith(boom)

	err := Multi{failing, ok}.SendMatchEvent(context.Background(), Event{ID: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.Events(), 1, "later notifiers still run")
	assert.Len(t, failing.Events(), 1)

	failing.Reset()
	assert.Empty(t, failing.Events())
	assert.NoError(t, failing.SendMatchEvent(context.Background(), Event{}))
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(nil)
	assert.NoError(t, n.SendMatchEvent(context.Background(), Event{Kind: KindSingleMatch}))
}

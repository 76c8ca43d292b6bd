package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/lostfound/core"
)

// Kind identifies the type of match event.
type Kind string

const (
	// KindSingleMatch announces one matching counterpart report.
	KindSingleMatch Kind = "single-match"
	// KindSummaryMatch lists every lost report a found item matched.
	KindSummaryMatch Kind = "summary-match"
)

// Recipient identifies who an event is addressed to.
type Recipient struct {
	ReportID core.ID `json:"report_id"`
	Name     string  `json:"name"`
	Contact  string  `json:"contact"`
}

// SummaryEntry describes one lost report in a summary event.
type SummaryEntry struct {
	ReportID    core.ID `json:"report_id"`
	Description string  `json:"description"`
	Name        string  `json:"name"`
	Contact     string  `json:"contact"`
	Secret      string  `json:"secret,omitempty"`
	Score       float64 `json:"score"`
}

// Payload is the content of a match event.
type Payload struct {
	ReportID           core.ID        `json:"report_id"` // The counterpart report
	Description        string         `json:"description"`
	CounterpartName    string         `json:"counterpart_name"`
	CounterpartContact string         `json:"counterpart_contact"`
	Secret             string         `json:"secret,omitempty"`
	Score              float64        `json:"score"`
	Matches            []SummaryEntry `json:"matches,omitempty"`
}

// Event is a single notification produced by a match pass.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Recipient Recipient `json:"recipient"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier delivers match events. Transport and templating are up to the
// implementation.
type Notifier interface {
	SendMatchEvent(ctx context.Context, event Event) error
}

func newEvent(kind Kind, recipient Recipient, payload Payload, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		Payload:   payload,
		CreatedAt: now,
	}
}

func recipientOf(r *core.Report) Recipient {
	return Recipient{ReportID: r.Id, Name: r.Name, Contact: r.Contact}
}

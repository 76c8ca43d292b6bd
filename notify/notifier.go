package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// LogNotifier writes events to a logger. It is the default when no transport
// is configured.
type LogNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// SendMatchEvent logs the event. Secrets are not logged.
func (n *LogNotifier) SendMatchEvent(ctx context.Context, event Event) error {
	n.logger.InfoContext(ctx, "match event",
		"id", event.ID,
		"kind", event.Kind,
		"recipient", event.Recipient.Contact,
		"report_id", event.Payload.ReportID,
		"score", event.Payload.Score,
		"matches", len(event.Payload.Matches),
	)
	return nil
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

var _ Notifier = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SendMatchEvent records event, then returns the configured failure if any.
func (r *Recorder) SendMatchEvent(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// FailWith makes subsequent sends return err after recording the event.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset clears recorded events and failures.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.err = nil
}

// Multi fans an event out to several notifiers. Every notifier is tried; the
// errors are joined.
type Multi []Notifier

var _ Notifier = Multi(nil)

// SendMatchEvent sends event to every notifier.
func (m Multi) SendMatchEvent(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.SendMatchEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

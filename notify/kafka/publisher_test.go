package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/notify"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() notify.Event {
	return notify.Event{
		ID:        "8c1d8c62-1f1e-4b8b-9d7a-0b1f1c6f2a10",
		Kind:      notify.KindSingleMatch,
		Recipient: notify.Recipient{ReportID: 42, Name: "Ana", Contact: "ana@example.com"},
		Payload: notify.Payload{
			ReportID:    7,
			Description: "black iphone 12 found near library",
			Secret:      "cracked corner",
			Score:       140.7,
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("matches", sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "matches", msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "single-match", headers["event_kind"])
	assert.Equal(t, SchemaVersion, headers["schema_version"])

	var decoded notify.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, sampleEvent(), decoded)
}

func TestBuildMessage_StampsMissingTime(t *testing.T) {
	event := sampleEvent()
	event.CreatedAt = time.Time{}

	msg, err := buildMessage("matches", event)
	require.NoError(t, err)

	var decoded notify.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.False(t, decoded.CreatedAt.IsZero())
}

func TestPublisher_SendMatchEvent(t *testing.T) {
	w := &fakeWriter{}
	p, err := newPublisher(w, "matches")
	require.NoError(t, err)

	require.NoError(t, p.SendMatchEvent(context.Background(), sampleEvent()))
	require.Len(t, w.messages, 1)

	w.err = errors.New("leader not available")
	err = p.SendMatchEvent(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, w.err)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisher(t *testing.T) {
	_, err := NewPublisher(Config{})
	assert.ErrorIs(t, err, ErrNoBrokers)

	p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, p.topic)
	require.NoError(t, p.Close())
}

func TestCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, compression("gzip"))
	assert.Equal(t, kafka.Snappy, compression("snappy"))
	assert.Equal(t, kafka.Compression(0), compression(""))
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/poiesic/lostfound/notify"
)

// DefaultTopic receives match events when no topic is configured.
const DefaultTopic = "lostfound.matches"

// SchemaVersion is sent as a header with every message.
const SchemaVersion = "1.0"

var (
	// ErrNoBrokers indicates a publisher configured without brokers.
	ErrNoBrokers = errors.New("kafka: at least one broker is required")
)

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher delivers match events to a Kafka topic as JSON.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

var _ notify.Notifier = (*Publisher)(nil)

// Option configures a Publisher.
type Option func(*Publisher) error

// WithLogger sets the logger for the publisher.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) error {
		p.logger = logger.With("component", "kafka-publisher")
		return nil
	}
}

// NewPublisher creates a publisher writing to cfg.Brokers.
func NewPublisher(cfg Config, opts ...Option) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression(cfg.Compression),
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.Topic, opts...)
}

func newPublisher(writer messageWriter, topic string, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		writer: writer,
		topic:  topic,
		logger: slog.Default().With("component", "kafka-publisher"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func compression(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "none", "":
		return 0
	default:
		return kafka.Snappy
	}
}

// SendMatchEvent publishes event, keyed by recipient report so events for
// the same report stay ordered within a partition.
func (p *Publisher) SendMatchEvent(ctx context.Context, event notify.Event) error {
	msg, err := buildMessage(p.topic, event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish match event", "id", event.ID, "err", err)
		return fmt.Errorf("publishing match event %s: %w", event.ID, err)
	}

	p.logger.Debug("published match event", "id", event.ID, "kind", event.Kind)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(topic string, event notify.Event) (kafka.Message, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding match event: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatUint(uint64(event.Recipient.ReportID), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_kind", Value: []byte(event.Kind)},
			{Key: "schema_version", Value: []byte(SchemaVersion)},
		},
	}, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/poiesic/lostfound/ai"
	"github.com/poiesic/lostfound/backfill"
	kafkanotify "github.com/poiesic/lostfound/notify/kafka"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config is the contents of a configuration file.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Matching  MatchingConfig  `toml:"matching"`
	Notify    NotifyConfig    `toml:"notify"`
	Backfill  BackfillConfig  `toml:"backfill"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type EmbeddingConfig struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
	Token string `toml:"token"`

	// Offline uses the deterministic mock embedder instead of a model server.
	Offline bool `toml:"offline"`
}

type MatchingConfig struct {
	// OtherCategoryBonus awards the category bonus when both reports are "other".
	OtherCategoryBonus bool `toml:"other_category_bonus"`
}

type NotifyConfig struct {
	Kafka KafkaConfig `toml:"kafka"`
}

// KafkaConfig enables the Kafka publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	BatchSize    int      `toml:"batch_size"`
	BatchTimeout Duration `toml:"batch_timeout"`
	RequiredAcks int      `toml:"required_acks"`
	Compression  string   `toml:"compression"`
}

type BackfillConfig struct {
	BatchSize         int      `toml:"batch_size"`
	Workers           int      `toml:"workers"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
	MaxRetries        int      `toml:"max_retries"`
	RetryDelay        Duration `toml:"retry_delay"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidValue, text)
	}
	d.Duration = parsed
	return nil
}

// DefaultDir returns ~/.lostfound.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lostfound"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	backfillDefaults := backfill.DefaultConfig()
	return &Config{
		Storage: StorageConfig{Backend: BackendBadger},
		Embedding: EmbeddingConfig{
			Host:  aiDefaults.EmbeddingHost,
			Model: aiDefaults.EmbeddingModel,
			Token: aiDefaults.EmbeddingToken,
		},
		Backfill: BackfillConfig{
			BatchSize:  backfillDefaults.BatchSize,
			Workers:    backfillDefaults.Workers,
			Burst:      backfillDefaults.Burst,
			MaxRetries: backfillDefaults.MaxRetries,
			RetryDelay: Duration{backfillDefaults.RetryDelay},
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = BackendBadger
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}

	if c.Backfill.BatchSize < 0 || c.Backfill.Workers < 0 || c.Backfill.MaxRetries < 0 {
		return fmt.Errorf("%w: backfill sizes must not be negative", ErrInvalidValue)
	}
	if c.Notify.Kafka.BatchSize < 0 {
		return fmt.Errorf("%w: kafka batch_size must not be negative", ErrInvalidValue)
	}
	return nil
}

// AI returns the embedding service configuration.
func (c *Config) AI() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithEmbeddingToken(c.Embedding.Token),
	)
	cfg.Normalize()
	return cfg
}

// BackfillConfig converts the backfill section, keeping defaults for
// unset values.
func (c *Config) BackfillConfig() *backfill.Config {
	cfg := backfill.DefaultConfig()
	if c.Backfill.BatchSize > 0 {
		cfg.BatchSize = c.Backfill.BatchSize
	}
	if c.Backfill.Workers > 0 {
		cfg.Workers = c.Backfill.Workers
	}
	if c.Backfill.Burst > 0 {
		cfg.Burst = c.Backfill.Burst
	}
	if c.Backfill.MaxRetries > 0 {
		cfg.MaxRetries = c.Backfill.MaxRetries
	}
	if c.Backfill.RetryDelay.Duration > 0 {
		cfg.RetryDelay = c.Backfill.RetryDelay.Duration
	}
	cfg.RequestsPerSecond = c.Backfill.RequestsPerSecond
	return cfg
}

// Kafka converts the kafka section. The second result is false when no
// brokers are configured.
func (c *Config) Kafka() (kafkanotify.Config, bool) {
	k := c.Notify.Kafka
	if len(k.Brokers) == 0 {
		return kafkanotify.Config{}, false
	}
	return kafkanotify.Config{
		Brokers:      k.Brokers,
		Topic:        k.Topic,
		BatchSize:    k.BatchSize,
		BatchTimeout: k.BatchTimeout.Duration,
		RequiredAcks: k.RequiredAcks,
		Compression:  k.Compression,
	}, true
}

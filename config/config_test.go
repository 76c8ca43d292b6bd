package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/ai"
	"github.com/poiesic/lostfound/backfill"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, ai.DefaultEmbeddingModel, cfg.Embedding.Model)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "SQLite"
path = "/var/lib/lostfound/reports.db"

[embedding]
host = "http://models:8080"
model = "text-embedding-3-small"

[matching]
other_category_bonus = true

[notify.kafka]
brokers = ["kafka-1:9092", "kafka-2:9092"]
topic = "matches"
batch_timeout = "250ms"
compression = "zstd"

[backfill]
workers = 8
requests_per_second = 2.5
retry_delay = "3s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/lostfound/reports.db", cfg.Storage.Path)
	assert.True(t, cfg.Matching.OtherCategoryBonus)

	aiCfg := cfg.AI()
	assert.Equal(t, "http://models:8080/v1", aiCfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", aiCfg.EmbeddingModel)

	kafkaCfg, ok := cfg.Kafka()
	require.True(t, ok)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, kafkaCfg.Brokers)
	assert.Equal(t, "matches", kafkaCfg.Topic)
	assert.Equal(t, 250*time.Millisecond, kafkaCfg.BatchTimeout)
	assert.Equal(t, "zstd", kafkaCfg.Compression)

	bf := cfg.BackfillConfig()
	assert.Equal(t, 8, bf.Workers)
	assert.Equal(t, 2.5, bf.RequestsPerSecond)
	assert.Equal(t, 3*time.Second, bf.RetryDelay)
	assert.Equal(t, backfill.DefaultBatchSize, bf.BatchSize)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[storage]\nbackend = \"postgres\"\n"))
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[backfill]\nretry_delay = \"soon\"\n"))
		assert.Error(t, err)
	})

	t.Run("negative workers", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[backfill]\nworkers = -1\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[storage\n"))
		assert.Error(t, err)
	})
}

func TestKafka_Disabled(t *testing.T) {
	_, ok := Default().Kafka()
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Storage.Path = "/tmp/reports"
	cfg.Notify.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Backfill.RetryDelay = Duration{5 * time.Second}
	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

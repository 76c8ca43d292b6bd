// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lostfound"
	"github.com/poiesic/lostfound/ai/mock"
	"github.com/poiesic/lostfound/config"
	"github.com/poiesic/lostfound/notify"
	kafkanotify "github.com/poiesic/lostfound/notify/kafka"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lostfound",
		Usage: "Match lost and found item reports by meaning",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the TOML configuration file (default ~/.lostfound/config.toml)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the report database (default ~/.lostfound/db)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Storage backend (badger, sqlite)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Use the built-in bag-of-words embedder instead of a model server",
			},
			&cli.StringSliceFlag{
				Name:  "kafka-brokers",
				Usage: "Publish match events to these Kafka brokers",
			},
			&cli.StringFlag{
				Name:  "kafka-topic",
				Usage: "Kafka topic for match events",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			reportCommand(),
			editCommand(),
			matchCommand(),
			searchCommand(),
			listCommand(),
			resolveCommand(),
			deleteCommand(),
			statsCommand(),
			backfillCommand(),
			seedCommand(),
		},
	}
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if cfg.Storage.Path == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.Storage.Path = filepath.Join(dir, "db")
	}
	if c.IsSet("backend") {
		cfg.Storage.Backend = c.String("backend")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("offline") {
		cfg.Embedding.Offline = c.Bool("offline")
	}
	if c.IsSet("kafka-brokers") {
		cfg.Notify.Kafka.Brokers = c.StringSlice("kafka-brokers")
	}
	if c.IsSet("kafka-topic") {
		cfg.Notify.Kafka.Topic = c.String("kafka-topic")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDatabase opens the database described by the configuration and flags.
func openDatabase(c *cli.Context) (*lostfound.Database, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	aiConfig := cfg.AI()
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []lostfound.DatabaseOption{
		lostfound.WithBackend(cfg.Storage.Backend),
		lostfound.WithAIConfig(aiConfig),
		lostfound.WithOtherCategoryBonus(cfg.Matching.OtherCategoryBonus),
	}
	if cfg.Embedding.Offline {
		opts = append(opts, lostfound.WithEmbedder(mock.NewMockEmbedder()))
	}

	if kafkaConfig, ok := cfg.Kafka(); ok {
		publisher, err := kafkanotify.NewPublisher(kafkaConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		// Events are logged as well as published.
		opts = append(opts, lostfound.WithNotifier(closingMulti{
			Multi:  notify.Multi{notify.NewLogNotifier(nil), publisher},
			closer: publisher,
		}))
	}

	db, err := lostfound.NewDatabase(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

// closingMulti closes the Kafka publisher when the database closes.
type closingMulti struct {
	notify.Multi
	closer interface{ Close() error }
}

func (m closingMulti) Close() error {
	return m.closer.Close()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

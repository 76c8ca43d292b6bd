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


package lostfound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/lostfound/ai"
	"github.com/poiesic/lostfound/ai/openai"
	"github.com/poiesic/lostfound/analysis"
	"github.com/poiesic/lostfound/backfill"
	"github.com/poiesic/lostfound/embedding"
	"github.com/poiesic/lostfound/intake"
	"github.com/poiesic/lostfound/matching"
	"github.com/poiesic/lostfound/notify"
	"github.com/poiesic/lostfound/scoring"
	"github.com/poiesic/lostfound/search"
	"github.com/poiesic/lostfound/storage"
	"github.com/poiesic/lostfound/storage/badger"
	"github.com/poiesic/lostfound/storage/sqlite"
)

// Storage backends accepted by WithBackend.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by NewDatabase for an unsupported backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// reportStore is implemented by both storage backends.
type reportStore interface {
	storage.ReportRepository
	storage.VectorSearcher
}

// Database wires a report store, the embedding model and the matching
// components together.
type Database struct {
	reports  reportStore
	backend  *badger.Backend // nil for sqlite
	model    *embedding.Model
	analyzer *analysis.Analyzer
	scorer   *scoring.Scorer
	notifier notify.Notifier
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig           *ai.Config
	backend            string
	loader             embedding.Loader
	notifier           notify.Notifier
	otherCategoryBonus bool
	logger             *slog.Logger
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithBackend selects the storage backend. Default is badger.
func WithBackend(backend string) DatabaseOption {
	return func(o *databaseOptions) {
		o.backend = backend
	}
}

// WithEmbedder uses embedder instead of the configured embedding service.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.loader = embedding.StaticLoader(embedder)
	}
}

// WithNotifier sets where match events are delivered. The database closes
// it on Close if it implements io.Closer.
func WithNotifier(notifier notify.Notifier) DatabaseOption {
	return func(o *databaseOptions) {
		o.notifier = notifier
	}
}

// WithOtherCategoryBonus awards the category bonus to two "other" reports.
func WithOtherCategoryBonus(enabled bool) DatabaseOption {
	return func(o *databaseOptions) {
		o.otherCategoryBonus = enabled
	}
}

// WithDatabaseLogger sets the logger passed to every component.
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens the report store at filePath. For badger filePath is a
// directory; for sqlite it is the database file.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		backend:  BackendBadger,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.loader == nil {
		aiConfig := options.aiConfig
		options.loader = func(ctx context.Context) (ai.Embedder, error) {
			return openai.NewEmbedder(aiConfig)
		}
	}

	model, err := embedding.NewModel(options.loader, embedding.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	analyzer, err := analysis.NewAnalyzer(model, analysis.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	db := &Database{
		model:    model,
		analyzer: analyzer,
		scorer:   scoring.NewScorer(scoring.WithOtherCategoryBonus(options.otherCategoryBonus)),
		notifier: options.notifier,
		logger:   options.logger,
	}
	if db.notifier == nil {
		db.notifier = notify.NewLogNotifier(options.logger)
	}

	switch options.backend {
	case BackendBadger, "":
		backend, err := badger.OpenBackend(filePath, false)
		if err != nil {
			return nil, err
		}
		repo, err := badger.NewReportRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		db.backend = backend
		db.reports = repo
	case BackendSQLite:
		if filepath.Ext(filePath) == "" {
			filePath = filepath.Join(filePath, "reports.db")
		}
		store, err := sqlite.NewStore(filePath)
		if err != nil {
			return nil, err
		}
		db.reports = store
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, options.backend)
	}

	return db, nil
}

// Close releases the notifier, the report store and the backend.
// Every resource is closed even if an earlier one fails; the errors are
// joined.
func (db *Database) Close() error {
	var errs []error

	if closer, ok := db.notifier.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			db.logger.Error("error closing notifier", "err", err)
			errs = append(errs, fmt.Errorf("closing notifier: %w", err))
		}
	}

	if err := db.reports.Close(); err != nil {
		db.logger.Error("error closing report store", "err", err)
		errs = append(errs, fmt.Errorf("closing report store: %w", err))
	}

	if db.backend != nil {
		if err := db.backend.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, fmt.Errorf("closing backend: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (db *Database) Reports() storage.ReportRepository {
	return db.reports
}

func (db *Database) Model() *embedding.Model {
	return db.model
}

func (db *Database) Analyzer() *analysis.Analyzer {
	return db.analyzer
}

// NewEngine creates a match engine delivering events to the database's
// notifier. opts are applied after the defaults.
func (db *Database) NewEngine(opts ...matching.Option) (*matching.Engine, error) {
	defaults := []matching.Option{
		matching.WithLogger(db.logger),
		matching.WithScorer(db.scorer),
		matching.WithNotifier(db.notifier),
	}
	return matching.NewEngine(db.reports, db.analyzer, append(defaults, opts...)...)
}

func (db *Database) NewPipeline(opts ...intake.Option) (*intake.Pipeline, error) {
	engine, err := db.NewEngine()
	if err != nil {
		return nil, err
	}
	return intake.NewPipeline(db.reports, db.analyzer, engine,
		append([]intake.Option{intake.WithLogger(db.logger)}, opts...)...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.reports, db.reports, db.model,
		append([]search.Option{search.WithLogger(db.logger)}, opts...)...)
}

func (db *Database) NewBackfiller(opts ...backfill.Option) (*backfill.Backfiller, error) {
	return backfill.NewBackfiller(db.reports, db.analyzer,
		append([]backfill.Option{backfill.WithLogger(db.logger)}, opts...)...)
}

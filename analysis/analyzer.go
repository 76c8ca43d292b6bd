package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/lostfound/classify"
	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/embedding"
	"github.com/poiesic/lostfound/extract"
)

// Analyzer computes every derived field of a description.
type Analyzer struct {
	model      *embedding.Model
	extractor  *extract.Extractor
	classifier *classify.Classifier
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets the logger for the analyzer.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "analyzer")
		return nil
	}
}

// WithExtractor replaces the default entity extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(a *Analyzer) error {
		if e == nil {
			return errors.New("extractor cannot be nil")
		}
		a.extractor = e
		return nil
	}
}

// WithClassifier replaces the default classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *Analyzer) error {
		if c == nil {
			return errors.New("classifier cannot be nil")
		}
		a.classifier = c
		return nil
	}
}

// NewAnalyzer creates an Analyzer backed by model.
func NewAnalyzer(model *embedding.Model, opts ...Option) (*Analyzer, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	a := &Analyzer{
		model:  model,
		logger: slog.Default().With("component", "analyzer"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	var err error
	if a.extractor == nil {
		if a.extractor, err = extract.New(); err != nil {
			return nil, err
		}
	}
	if a.classifier == nil {
		if a.classifier, err = classify.New(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Analyze computes the embedding, entities, category and fingerprint of text.
// The vector is stamped with the name of the model that produced it.
//
// Entities, category and fingerprint are always filled in. If the vector
// cannot be computed the returned analysis has no vector and the error says
// why; callers may still persist the rest.
func (a *Analyzer) Analyze(ctx context.Context, text string) (core.Analysis, error) {
	result := a.Describe(text)

	vector, err := a.model.Embed(ctx, text)
	if err != nil {
		return result, fmt.Errorf("embedding description: %w", err)
	}
	result.Vector = vector
	result.Model = a.model.Name()
	return result, nil
}

// AnalyzeBatch analyzes several texts with a single embedding call.
// On an embedding error, the returned analyses carry no vectors.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]core.Analysis, error) {
	results := make([]core.Analysis, len(texts))
	for i, text := range texts {
		results[i] = a.Describe(text)
	}
	if len(texts) == 0 {
		return results, nil
	}

	vectors, err := a.model.EmbedBatch(ctx, texts)
	if err != nil {
		return results, fmt.Errorf("embedding %d descriptions: %w", len(texts), err)
	}
	name := a.model.Name()
	for i := range results {
		results[i].Vector = vectors[i]
		results[i].Model = name
	}
	return results, nil
}

// Describe computes the fields that do not need the embedding model.
func (a *Analyzer) Describe(text string) core.Analysis {
	normalized := core.NormalizeDescription(text)
	entities := a.extractor.Extract(normalized)
	return core.Analysis{
		Entities:    entities,
		Category:    a.classifier.Classify(normalized, entities),
		Fingerprint: core.Fingerprint(normalized),
	}
}

// Identity returns the name and dimension of the embedding model. Stored
// analyses are current only if they match it.
func (a *Analyzer) Identity(ctx context.Context) (core.EmbeddingModel, error) {
	return a.model.Identity(ctx)
}

// Model returns the embedding model.
func (a *Analyzer) Model() *embedding.Model {
	return a.model
}

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


package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/lostfound/ai"
	"github.com/poiesic/lostfound/core"
)

// probeText is embedded once after loading to learn the model's dimension.
const probeText = "lost and found"

// Loader constructs the underlying embedder. It is called lazily on first use
// and again after a failed load.
type Loader func(ctx context.Context) (ai.Embedder, error)

// StaticLoader returns a Loader that always yields embedder.
func StaticLoader(embedder ai.Embedder) Loader {
	return func(ctx context.Context) (ai.Embedder, error) {
		return embedder, nil
	}
}

// Model is the process-wide embedding provider.
//
// The underlying embedder is loaded on first use and shared by all callers.
// Inference calls are serialized because embedders are not assumed to be
// reentrant. If loading fails, calls return ErrUnavailable and the next call
// tries again.
type Model struct {
	loader     Loader
	configName string
	logger     *slog.Logger

	mu       sync.Mutex
	embedder ai.Embedder
	dim      int
	name     string
}

// Option configures a Model.
type Option func(*Model) error

// WithLogger sets the logger for the model.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger.With("component", "embedding-model")
		return nil
	}
}

// WithName sets the model name stored with every vector.
// Default is the embedder's ModelName if it implements ai.ModelNamer.
func WithName(name string) Option {
	return func(m *Model) error {
		m.configName = name
		return nil
	}
}

// NewModel creates a Model that loads its embedder through loader.
// Nothing is loaded until the first Embed call.
func NewModel(loader Loader, opts ...Option) (*Model, error) {
	if loader == nil {
		return nil, ErrNoLoader
	}
	m := &Model{
		loader: loader,
		logger: slog.Default().With("component", "embedding-model"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Embed returns the embedding of the normalized text.
// The same normalized text always yields the same vector for a given model.
func (m *Model) Embed(ctx context.Context, text string) (core.Vector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	raw, err := m.embedder.EmbedText(ctx, core.NormalizeDescription(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	return m.checkDimension(raw)
}

// EmbedBatch embeds several texts in one call to the underlying embedder.
// Results are in input order.
func (m *Model) EmbedBatch(ctx context.Context, texts []string) ([]core.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	normalized := make([]string, len(texts))
	for i, text := range texts {
		normalized[i] = core.NormalizeDescription(text)
	}
	raws, err := m.embedder.EmbedTexts(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(raws) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailed, len(raws), len(texts))
	}

	out := make([]core.Vector, len(raws))
	for i, raw := range raws {
		if out[i], err = m.checkDimension(raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Dimension returns the vector dimension of the loaded model, loading it if
// necessary.
func (m *Model) Dimension(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return m.dim, nil
}

// Identity returns the name and dimension of the loaded model, loading it if
// necessary.
func (m *Model) Identity(ctx context.Context) (core.EmbeddingModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(ctx); err != nil {
		return core.EmbeddingModel{}, err
	}
	return core.EmbeddingModel{Name: m.name, Dimension: m.dim}, nil
}

// Name returns the name of the loaded model, or "" before it is loaded.
func (m *Model) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Loaded reports whether the embedder has been loaded.
func (m *Model) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedder != nil
}

// Reset drops the loaded embedder so the next call loads it again.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedder = nil
	m.dim = 0
	m.name = ""
}

// ensureLoaded loads and probes the embedder. Callers hold m.mu.
func (m *Model) ensureLoaded(ctx context.Context) error {
	if m.embedder != nil {
		return nil
	}

	start := time.Now()
	embedder, err := m.loader(ctx)
	if err != nil {
		m.logger.Warn("embedding model unavailable", "err", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if embedder == nil {
		return fmt.Errorf("%w: loader returned no embedder", ErrUnavailable)
	}

	probe, err := embedder.EmbedText(ctx, probeText)
	if err != nil {
		m.logger.Warn("embedding model probe failed", "err", err)
		return fmt.Errorf("%w: probe: %w", ErrUnavailable, err)
	}
	if len(probe) == 0 {
		return fmt.Errorf("%w: probe returned an empty vector", ErrUnavailable)
	}

	m.embedder = embedder
	m.dim = len(probe)
	m.name = m.configName
	if namer, ok := embedder.(ai.ModelNamer); ok && m.name == "" {
		m.name = namer.ModelName()
	}
	m.logger.Info("embedding model loaded", "model", m.name, "dimension", m.dim, "elapsed", time.Since(start))
	return nil
}

func (m *Model) checkDimension(raw []float32) (core.Vector, error) {
	if len(raw) != m.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(raw), m.dim)
	}
	return core.Vector(raw), nil
}

// IsUnavailable reports whether err means the model could not be loaded.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

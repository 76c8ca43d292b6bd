package embedding

import "errors"

var (
	// ErrUnavailable indicates the embedding model could not be loaded.
	// Callers degrade instead of failing the surrounding operation.
	ErrUnavailable = errors.New("embedding model unavailable")

	// ErrEmbeddingFailed indicates the loaded model failed to embed a text.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// dimension fixed when the model was loaded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoLoader indicates NewModel was called without a loader.
	ErrNoLoader = errors.New("embedding loader is required")
)

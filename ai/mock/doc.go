// Package mock provides a deterministic embedder for testing and offline use.
//
// # Usage
//
//	mockEmbedder := mock.NewMockEmbedder()
//
//	// Override behavior for a specific test
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("model offline")
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// MockEmbedder hashes the words of a text into a fixed-size unit vector.
// Identical texts produce identical vectors, texts sharing words produce
// similar vectors and texts with no words in common are nearly orthogonal.
package mock

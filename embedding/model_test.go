package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/ai"
	"github.com/poiesic/lostfound/ai/mock"
)

func TestModel_LazyLoadOnce(t *testing.T) {
	loads := 0
	embedder := mock.NewMockEmbedderWithDimension(16)
	model, err := NewModel(func(ctx context.Context) (ai.Embedder, error) {
		loads++
		return embedder, nil
	})
	require.NoError(t, err)
	assert.False(t, model.Loaded())
	assert.Equal(t, 0, loads, "nothing is loaded before first use")

	ctx := context.Background()
	_, err = model.Embed(ctx, "black wallet")
	require.NoError(t, err)
	_, err = model.Embed(ctx, "red umbrella")
	require.NoError(t, err)

	assert.True(t, model.Loaded())
	assert.Equal(t, 1, loads)

	dim, err := model.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, dim)
}

func TestModel_Deterministic(t *testing.T) {
	model, err := NewModel(StaticLoader(mock.NewMockEmbedder()))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := model.Embed(ctx, "Black iPhone 12")
	require.NoError(t, err)
	b, err := model.Embed(ctx, "  black iphone 12  ")
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "normalized text must embed identically")
}

func TestModel_UnavailableIsRetried(t *testing.T) {
	attempts := 0
	model, err := NewModel(func(ctx context.Context) (ai.Embedder, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("connection refused")
		}
		return mock.NewMockEmbedderWithDimension(8), nil
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = model.Embed(ctx, "black wallet")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, model.Loaded())

	v, err := model.Embed(ctx, "black wallet")
	require.NoError(t, err)
	assert.Equal(t, 8, v.Dim())
	assert.Equal(t, 2, attempts)
}

func TestModel_ProbeFailureIsUnavailable(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model not pulled")
	}
	model, err := NewModel(StaticLoader(embedder))
	require.NoError(t, err)

	_, err = model.Embed(context.Background(), "keys")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestModel_DimensionMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedderWithDimension(4)
	model, err := NewModel(StaticLoader(embedder))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = model.Embed(ctx, "keys")
	require.NoError(t, err)

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 2}, nil
	}
	_, err = model.Embed(ctx, "keys")
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestModel_EmbedBatch(t *testing.T) {
	model, err := NewModel(StaticLoader(mock.NewMockEmbedder()))
	require.NoError(t, err)
	ctx := context.Background()

	vectors, err := model.EmbedBatch(ctx, []string{"Black Wallet", "red umbrella"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	single, err := model.Embed(ctx, "black wallet")
	require.NoError(t, err)
	assert.True(t, single.Equal(vectors[0]))

	none, err := model.EmbedBatch(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestModel_Reset(t *testing.T) {
	loads := 0
	model, err := NewModel(func(ctx context.Context) (ai.Embedder, error) {
		loads++
		return mock.NewMockEmbedder(), nil
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = model.Embed(ctx, "watch")
	require.NoError(t, err)
	model.Reset()
	assert.False(t, model.Loaded())

	_, err = model.Embed(ctx, "watch")
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestModel_ConcurrentUse(t *testing.T) {
	loads := 0
	model, err := NewModel(func(ctx context.Context) (ai.Embedder, error) {
		loads++
		return mock.NewMockEmbedder(), nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := model.Embed(context.Background(), "silver watch")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, loads)
}

// unnamedEmbedder hides the wrapped embedder's ModelName.
type unnamedEmbedder struct {
	ai.Embedder
}

func TestModel_Identity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		embedder ai.Embedder
		opts     []Option
		want     string
	}{
		{"from embedder", mock.NewMockEmbedderWithDimension(8), nil, mock.DefaultModelName},
		{"configured name wins", mock.NewMockEmbedderWithDimension(8), []Option{WithName("minilm")}, "minilm"},
		{"unnamed embedder", unnamedEmbedder{mock.NewMockEmbedderWithDimension(8)}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewModel(StaticLoader(tt.embedder), tt.opts...)
			require.NoError(t, err)
			assert.Empty(t, model.Name(), "no name before loading")

			id, err := model.Identity(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Name)
			assert.Equal(t, 8, id.Dimension)
			assert.Equal(t, tt.want, model.Name())

			model.Reset()
			assert.Empty(t, model.Name())
		})
	}
}

func TestModel_IdentityUnavailable(t *testing.T) {
	model, err := NewModel(func(ctx context.Context) (ai.Embedder, error) {
		return nil, errors.New("connection refused")
	})
	require.NoError(t, err)

	_, err = model.Identity(context.Background())
	assert.True(t, IsUnavailable(err))
}

func TestWithLogger_Nil(t *testing.T) {
	model, err := NewModel(StaticLoader(mock.NewMockEmbedder()), WithLogger(nil))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		_, err = model.Embed(context.Background(), "black wallet")
	})
	assert.NoError(t, err)
}

func TestNewModel_RequiresLoader(t *testing.T) {
	_, err := NewModel(nil)
	assert.ErrorIs(t, err, ErrNoLoader)
}

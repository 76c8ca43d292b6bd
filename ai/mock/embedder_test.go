package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lostfound/core"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "black iphone 12")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "black iphone 12")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimension)
	assert.True(t, core.Vector(a).Equal(b))
	assert.Equal(t, 2, m.CallCount())
}

func TestMockEmbedder_SharedWordsAreSimilar(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	vecs, err := m.EmbedTexts(ctx, []string{
		"black iphone 12",
		"black iphone 12 found near library",
		"red bicycle",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	related := core.Similarity(vecs[0], vecs[1])
	unrelated := core.Similarity(vecs[0], vecs[2])
	assert.Greater(t, related, 50.0)
	assert.Less(t, unrelated, 10.0)
	assert.Greater(t, related, unrelated)
}

func TestMockEmbedder_EmptyTextIsZero(t *testing.T) {
	v := BagOfWordsVector("  ...  ", 8)
	assert.Len(t, v, 8)
	assert.True(t, core.Vector(v).IsZero())
}

func TestMockEmbedder_Overrides(t *testing.T) {
	m := NewMockEmbedderWithDimension(4)
	offline := errors.New("offline")
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, offline
	}

	_, err := m.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, offline)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	v, err := m.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, v, 4)
}

func TestMockEmbedder_ModelName(t *testing.T) {
	m := NewMockEmbedder()
	assert.Equal(t, DefaultModelName, m.ModelName())

	m.Name = "mock-v2"
	assert.Equal(t, "mock-v2", m.ModelName())
}

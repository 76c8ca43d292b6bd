package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		input    Vector
		expected Vector
	}{
		{
			name:     "unit vector remains unchanged",
			input:    Vector{1.0, 0.0, 0.0},
			expected: Vector{1.0, 0.0, 0.0},
		},
		{
			name:     "scale non-unit vector",
			input:    Vector{3.0, 4.0},
			expected: Vector{0.6, 0.8},
		},
		{
			name:     "zero vector stays zero",
			input:    Vector{0, 0, 0},
			expected: Vector{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Normalize()
			require.Equal(t, len(tt.expected), len(result))
			for i := range result {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6, "element %d", i)
			}
		})
	}
}

func TestVector_Cosine(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{"identical", Vector{0.2, 0.5, -0.1}, Vector{0.2, 0.5, -0.1}, 1},
		{"scaled copy", Vector{1, 2, 3}, Vector{2, 4, 6}, 1},
		{"orthogonal", Vector{1, 0}, Vector{0, 1}, 0},
		{"opposite", Vector{1, 0}, Vector{-1, 0}, -1},
		{"zero magnitude", Vector{0, 0}, Vector{1, 1}, 0},
		{"both zero", Vector{0, 0}, Vector{0, 0}, 0},
		{"length mismatch", Vector{1, 0, 0}, Vector{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.Cosine(tt.b), 1e-9)
			assert.InDelta(t, tt.want, tt.b.Cosine(tt.a), 1e-9, "cosine should be symmetric")
		})
	}
}

func TestVector_BinaryRoundTrip(t *testing.T) {
	v := Vector{0, -1.5, float32(math.Pi), math.MaxFloat32, math.SmallestNonzeroFloat32, float32(math.Inf(-1))}

	data, err := v.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, len(v)*4)

	decoded, err := DecodeVector(data)
	require.NoError(t, err)
	assert.True(t, v.Equal(decoded), "vector must round-trip exactly")
}

func TestVector_UnmarshalMalformed(t *testing.T) {
	_, err := DecodeVector([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedVector)

	empty, err := DecodeVector(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Dim())
}

func TestSimilarity(t *testing.T) {
	v := Vector{0.3, -0.7, 0.2, 0.9}
	assert.InDelta(t, 100, Similarity(v, v), 1e-9)
	assert.InDelta(t, 0, Similarity(Vector{1, 0}, Vector{-1, 0}), 1e-9)
	assert.InDelta(t, 0, Similarity(Vector{0, 0}, v[:2]), 1e-9)
	assert.InDelta(t, 50, Similarity(Vector{1, 0}, Vector{0.5, float32(math.Sqrt(3) / 2)}), 1e-5)
}

package core

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vector is an embedding vector. Its byte layout is only visible through
// MarshalBinary and UnmarshalBinary.
type Vector []float32

// Dim returns the number of components.
func (v Vector) Dim() int {
	return len(v)
}

// IsZero reports whether the vector is empty or has zero magnitude.
func (v Vector) IsZero() bool {
	return v.Norm() == 0
}

// Norm returns the Euclidean magnitude of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v.
// A zero vector normalizes to a zero vector of the same length.
func (v Vector) Normalize() Vector {
	result := make(Vector, len(v))
	magnitude := v.Norm()
	if magnitude == 0 {
		return result
	}
	for i, x := range v {
		result[i] = float32(float64(x) / magnitude)
	}
	return result
}

// Cosine returns the cosine similarity of v and other in [-1, 1].
// Vectors of different length or zero magnitude have similarity 0.
func (v Vector) Cosine(other Vector) float64 {
	if len(v) == 0 || len(v) != len(other) {
		return 0
	}
	var dot, na, nb float64
	for i := range v {
		a, b := float64(v[i]), float64(other[i])
		dot += a * b
		na += a * a
		nb += b * b
	}
	if na == 0 || nb == 0 {
		return 0
	}
	cos := dot / math.Sqrt(na*nb)
	return math.Max(-1, math.Min(1, cos))
}

// Equal reports whether both vectors have identical components.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if math.Float32bits(v[i]) != math.Float32bits(other[i]) {
			return false
		}
	}
	return true
}

// MarshalBinary encodes the vector as consecutive little-endian float32 values.
func (v Vector) MarshalBinary() ([]byte, error) {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf, nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func (v *Vector) UnmarshalBinary(data []byte) error {
	if len(data)%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrMalformedVector, len(data))
	}
	if len(data) == 0 {
		*v = nil
		return nil
	}
	out := make(Vector, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	*v = out
	return nil
}

// DecodeVector is a convenience wrapper around UnmarshalBinary.
func DecodeVector(data []byte) (Vector, error) {
	var v Vector
	if err := v.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return v, nil
}

// Similarity returns the cosine similarity of a and b scaled to [0, 100].
// Negative cosines score 0.
func Similarity(a, b Vector) float64 {
	return math.Max(0, a.Cosine(b)) * 100
}

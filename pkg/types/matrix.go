// Package types holds the data types shared across the linearica module:
// the generic observed/recovered matrix, the float constraint it is
// parameterized over, and the structured error taxonomy raised by the
// public API.
package types

// Float is the set of scalar types linearica accepts for observed data and
// recovered sources. The core linear-algebra and optimization path always
// runs in float64 (gonum's mat package has no float32 surface); a Matrix[T]
// with T = float32 is converted at the boundary of LinearICA and nowhere
// else, so this constraint only governs the public API's input/output
// precision, not the internal compute precision.
type Float interface {
	~float32 | ~float64
}

// Matrix is a dense, row-major, channel-major matrix: Matrix[T][c] is the
// slice of frames for channel c. This mirrors bitjungle/gopca's
// "type Matrix [][]float64", transposed from sample-major to channel-major
// to match the C (channels) × N (frames) convention used throughout this
// package.
type Matrix[T Float] [][]T

// Dims returns the channel count C and frame count N. A Matrix with no rows
// reports N = 0.
func (m Matrix[T]) Dims() (c, n int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Rectangular reports whether every row has the same length as the first.
func (m Matrix[T]) Rectangular() bool {
	if len(m) == 0 {
		return true
	}
	n := len(m[0])
	for _, row := range m[1:] {
		if len(row) != n {
			return false
		}
	}
	return true
}

// NewMatrix allocates a C×N matrix with all entries zeroed.
func NewMatrix[T Float](c, n int) Matrix[T] {
	m := make(Matrix[T], c)
	for i := range m {
		m[i] = make([]T, n)
	}
	return m
}

// ToFloat64 copies m into a float64 matrix, widening each element if T is
// float32. This is the one conversion boundary the T ∈ {f32, f64} input
// constraint crosses: everything past this call runs in float64.
func ToFloat64[T Float](m Matrix[T]) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = float64(v)
		}
	}
	return out
}

// FromFloat64 narrows a float64 matrix back down to T, the inverse of
// ToFloat64.
func FromFloat64[T Float](m [][]float64) Matrix[T] {
	out := make(Matrix[T], len(m))
	for i, row := range m {
		out[i] = make([]T, len(row))
		for j, v := range row {
			out[i][j] = T(v)
		}
	}
	return out
}

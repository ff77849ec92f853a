package mathx

import (
	"fmt"
	"math"

	"github.com/go-argmin/argmin/argerr"
)

// Matrix is the native dense-matrix backend: row-major storage over a
// flat slice. It backs Hessians, inverse Hessians and Jacobians for
// solvers that do not need an external linalg library.
type Matrix[F Float] struct {
	rows, cols int
	data       []F
}

// NewMatrix returns a rows x cols Matrix with all entries zero.
func NewMatrix[F Float](rows, cols int) Matrix[F] {
	return Matrix[F]{rows: rows, cols: cols, data: make([]F, rows*cols)}
}

// Eye returns the n x n identity matrix.
func Eye[F Float](n int) Matrix[F] {
	m := NewMatrix[F](n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func (m Matrix[F]) Dims() (int, int) { return m.rows, m.cols }

func (m Matrix[F]) At(r, c int) F { return m.data[r*m.cols+c] }

func (m *Matrix[F]) Set(r, c int, v F) { m.data[r*m.cols+c] = v }

func (m Matrix[F]) Clone() Matrix[F] {
	out := NewMatrix[F](m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

func sameDims[F Float](a, b Matrix[F]) bool {
	return a.rows == b.rows && a.cols == b.cols
}

func (m Matrix[F]) Add(rhs Matrix[F]) (Matrix[F], error) {
	if !sameDims(m, rhs) {
		return Matrix[F]{}, dimErr("Matrix.Add", m.rows*m.cols, rhs.rows*rhs.cols)
	}
	out := NewMatrix[F](m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] + rhs.data[i]
	}
	return out, nil
}

func (m Matrix[F]) Sub(rhs Matrix[F]) (Matrix[F], error) {
	if !sameDims(m, rhs) {
		return Matrix[F]{}, dimErr("Matrix.Sub", m.rows*m.cols, rhs.rows*rhs.cols)
	}
	out := NewMatrix[F](m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - rhs.data[i]
	}
	return out, nil
}

func (m Matrix[F]) ScaledAdd(factor F, rhs Matrix[F]) (Matrix[F], error) {
	if !sameDims(m, rhs) {
		return Matrix[F]{}, dimErr("Matrix.ScaledAdd", m.rows*m.cols, rhs.rows*rhs.cols)
	}
	out := NewMatrix[F](m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] + factor*rhs.data[i]
	}
	return out, nil
}

func (m Matrix[F]) ScaledSub(factor F, rhs Matrix[F]) (Matrix[F], error) {
	if !sameDims(m, rhs) {
		return Matrix[F]{}, dimErr("Matrix.ScaledSub", m.rows*m.cols, rhs.rows*rhs.cols)
	}
	out := NewMatrix[F](m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - factor*rhs.data[i]
	}
	return out, nil
}

// DotVector computes mat.vec -> vec.
func (m Matrix[F]) DotVector(v Vector[F]) (Vector[F], error) {
	if m.cols != len(v) {
		return nil, dimErr("Matrix.DotVector", m.cols, len(v))
	}
	out := make(Vector[F], m.rows)
	for r := 0; r < m.rows; r++ {
		var sum F
		base := r * m.cols
		for c := 0; c < m.cols; c++ {
			sum += m.data[base+c] * v[c]
		}
		out[r] = sum
	}
	return out, nil
}

// Dot computes mat.mat -> mat.
func (m Matrix[F]) Dot(rhs Matrix[F]) (Matrix[F], error) {
	if m.cols != rhs.rows {
		return Matrix[F]{}, dimErr("Matrix.Dot", m.cols, rhs.rows)
	}
	out := NewMatrix[F](m.rows, rhs.cols)
	for r := 0; r < m.rows; r++ {
		for k := 0; k < m.cols; k++ {
			mv := m.At(r, k)
			if mv == 0 {
				continue
			}
			for c := 0; c < rhs.cols; c++ {
				out.data[r*out.cols+c] += mv * rhs.At(k, c)
			}
		}
	}
	return out, nil
}

func (m Matrix[F]) Transpose() Matrix[F] {
	out := NewMatrix[F](m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(c, r, m.At(r, c))
		}
	}
	return out
}

func (m Matrix[F]) Signum() Matrix[F] {
	out := NewMatrix[F](m.rows, m.cols)
	for i, x := range m.data {
		switch {
		case x > 0:
			out.data[i] = 1
		case x < 0:
			out.data[i] = -1
		default:
			out.data[i] = 0
		}
	}
	return out
}

func (m Matrix[F]) ZeroLike() Matrix[F] {
	return NewMatrix[F](m.rows, m.cols)
}

// Inv computes the matrix inverse via Gauss-Jordan elimination with
// partial pivoting, failing with CodeInverseError when m is non-square
// or numerically singular.
func (m Matrix[F]) Inv() (Matrix[F], error) {
	n := m.rows
	if n != m.cols {
		return Matrix[F]{}, argerr.New(argerr.CodeInverseError,
			fmt.Sprintf("matrix is not square (%dx%d)", m.rows, m.cols))
	}

	// augmented [A | I] working copy in float64 for numerical stability
	aug := make([][]float64, n)
	for r := 0; r < n; r++ {
		aug[r] = make([]float64, 2*n)
		for c := 0; c < n; c++ {
			aug[r][c] = float64(m.At(r, c))
		}
		aug[r][n+r] = 1
	}

	const pivotEps = 1e-12
	for col := 0; col < n; col++ {
		pivotRow := col
		best := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				best = v
				pivotRow = r
			}
		}
		if best < pivotEps {
			return Matrix[F]{}, argerr.New(argerr.CodeInverseError, "matrix is singular")
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for c := 0; c < 2*n; c++ {
			aug[col][c] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	out := NewMatrix[F](n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.Set(r, c, F(aug[r][n+c]))
		}
	}
	return out, nil
}

// RandomMatrix returns a rows x cols Matrix with entries drawn uniformly
// from [low, high] using rng.
func RandomMatrix[F Float](rng Rand, rows, cols int, low, high F) Matrix[F] {
	m := NewMatrix[F](rows, cols)
	span := float64(high - low)
	for i := range m.data {
		m.data[i] = low + F(rng.Float64()*span)
	}
	return m
}

// Package lvlathx is a third dense-matrix backend, distinct in storage
// layout from mathx.Matrix (flat slice) and gonumx.Mat (gonum's Dense).
// It reuses the row/col-slice-of-slices storage and bounds-checking
// idiom of katalvlaran/lvlath's AdjacencyMatrix (graph/matrix package) —
// there, Data[i][j] holds an edge weight or zero; here, the same shape
// holds a Hessian/Jacobian entry. The point of keeping a third backend
// around is the parity contract in §4.1 of the spec: every capability
// trait must be implemented uniformly enough that the same solver code
// compiles against any of them.
package lvlathx

import (
	"fmt"

	"github.com/go-argmin/argmin/argerr"
)

// Dense is a rows x cols matrix stored as a slice of row slices, the
// same shape lvlath's AdjacencyMatrix uses for Data.
type Dense struct {
	rows, cols int
	Data       [][]float64
}

// NewDense returns a zero-filled rows x cols Dense.
func NewDense(rows, cols int) Dense {
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	return Dense{rows: rows, cols: cols, Data: data}
}

// Eye returns the n x n identity matrix.
func Eye(n int) Dense {
	d := NewDense(n, n)
	for i := 0; i < n; i++ {
		d.Data[i][i] = 1
	}
	return d
}

func (d Dense) Dims() (int, int) { return d.rows, d.cols }

func (d Dense) checkBounds(r, c int) error {
	if r < 0 || r >= d.rows || c < 0 || c >= d.cols {
		return fmt.Errorf("lvlathx.Dense: index (%d,%d) out of bounds for %dx%d matrix", r, c, d.rows, d.cols)
	}
	return nil
}

func dimErr(op string, a, b int) error {
	return argerr.New(argerr.CodeDimensionMismatch, fmt.Sprintf("%s: dimension mismatch (%d vs %d)", op, a, b))
}

func (d Dense) Clone() Dense {
	out := NewDense(d.rows, d.cols)
	for i := range d.Data {
		copy(out.Data[i], d.Data[i])
	}
	return out
}

func (d Dense) Add(rhs Dense) (Dense, error) {
	if d.rows != rhs.rows || d.cols != rhs.cols {
		return Dense{}, dimErr("lvlathx.Dense.Add", d.rows*d.cols, rhs.rows*rhs.cols)
	}
	out := NewDense(d.rows, d.cols)
	for i := range d.Data {
		for j := range d.Data[i] {
			out.Data[i][j] = d.Data[i][j] + rhs.Data[i][j]
		}
	}
	return out, nil
}

func (d Dense) Sub(rhs Dense) (Dense, error) {
	if d.rows != rhs.rows || d.cols != rhs.cols {
		return Dense{}, dimErr("lvlathx.Dense.Sub", d.rows*d.cols, rhs.rows*rhs.cols)
	}
	out := NewDense(d.rows, d.cols)
	for i := range d.Data {
		for j := range d.Data[i] {
			out.Data[i][j] = d.Data[i][j] - rhs.Data[i][j]
		}
	}
	return out, nil
}

func (d Dense) DotVector(v []float64) ([]float64, error) {
	if d.cols != len(v) {
		return nil, dimErr("lvlathx.Dense.DotVector", d.cols, len(v))
	}
	out := make([]float64, d.rows)
	for i := 0; i < d.rows; i++ {
		var sum float64
		for j := 0; j < d.cols; j++ {
			sum += d.Data[i][j] * v[j]
		}
		out[i] = sum
	}
	return out, nil
}

func (d Dense) Transpose() Dense {
	out := NewDense(d.cols, d.rows)
	for i := range d.Data {
		for j, v := range d.Data[i] {
			out.Data[j][i] = v
		}
	}
	return out
}

func (d Dense) Signum() Dense {
	out := NewDense(d.rows, d.cols)
	for i := range d.Data {
		for j, v := range d.Data[i] {
			switch {
			case v > 0:
				out.Data[i][j] = 1
			case v < 0:
				out.Data[i][j] = -1
			}
		}
	}
	return out
}

func (d Dense) ZeroLike() Dense { return NewDense(d.rows, d.cols) }

// Inv computes the inverse via Gauss-Jordan elimination, failing with
// CodeInverseError for non-square or singular input.
func (d Dense) Inv() (Dense, error) {
	n := d.rows
	if n != d.cols {
		return Dense{}, argerr.New(argerr.CodeInverseError, fmt.Sprintf("matrix is not square (%dx%d)", d.rows, d.cols))
	}
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], d.Data[i])
		aug[i][n+i] = 1
	}
	const eps = 1e-12
	for col := 0; col < n; col++ {
		pivot := col
		best := abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := abs(aug[r][col]); v > best {
				best, pivot = v, r
			}
		}
		if best < eps {
			return Dense{}, argerr.New(argerr.CodeInverseError, "matrix is singular")
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		p := aug[col][col]
		for c := 0; c < 2*n; c++ {
			aug[col][c] /= p
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := aug[r][col]
			if f == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[r][c] -= f * aug[col][c]
			}
		}
	}
	out := NewDense(n, n)
	for r := 0; r < n; r++ {
		copy(out.Data[r], aug[r][n:])
	}
	return out, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

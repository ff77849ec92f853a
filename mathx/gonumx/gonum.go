// Package gonumx is the gonum-backed dense-linalg backend: it implements
// the mathx capability traits over gonum.org/v1/gonum/mat's VecDense and
// Dense types, so solvers written against the mathx trait interfaces can
// be compiled against gonum storage without the core engine ever
// importing gonum itself. Grounded on the optimize-package shape seen
// across the retrieval pack's gonum references (cmaes.go, lmopt.go,
// types.go, affine_scaling.go) and on vladimir-ch's iterative solver
// interface.
package gonumx

import (
	"fmt"

	"github.com/go-argmin/argmin/argerr"
	"gonum.org/v1/gonum/mat"
)

// Vec wraps *mat.VecDense to satisfy the mathx vector capability traits.
type Vec struct{ V *mat.VecDense }

// NewVec returns a zero Vec of length n.
func NewVec(n int) Vec { return Vec{V: mat.NewVecDense(n, nil)} }

// FromSlice builds a Vec from native float64 values.
func FromSlice(data []float64) Vec {
	return Vec{V: mat.NewVecDense(len(data), append([]float64(nil), data...))}
}

func (v Vec) dim() int { return v.V.Len() }

func dimErr(op string, a, b int) error {
	return argerr.New(argerr.CodeDimensionMismatch, fmt.Sprintf("%s: dimension mismatch (%d vs %d)", op, a, b))
}

func (v Vec) Add(rhs Vec) (Vec, error) {
	if v.dim() != rhs.dim() {
		return Vec{}, dimErr("gonumx.Vec.Add", v.dim(), rhs.dim())
	}
	out := mat.NewVecDense(v.dim(), nil)
	out.AddVec(v.V, rhs.V)
	return Vec{V: out}, nil
}

func (v Vec) Sub(rhs Vec) (Vec, error) {
	if v.dim() != rhs.dim() {
		return Vec{}, dimErr("gonumx.Vec.Sub", v.dim(), rhs.dim())
	}
	out := mat.NewVecDense(v.dim(), nil)
	out.SubVec(v.V, rhs.V)
	return Vec{V: out}, nil
}

func (v Vec) ScaledAdd(factor float64, rhs Vec) (Vec, error) {
	if v.dim() != rhs.dim() {
		return Vec{}, dimErr("gonumx.Vec.ScaledAdd", v.dim(), rhs.dim())
	}
	out := mat.NewVecDense(v.dim(), nil)
	out.AddScaledVec(v.V, factor, rhs.V)
	return Vec{V: out}, nil
}

func (v Vec) ScaledSub(factor float64, rhs Vec) (Vec, error) {
	return v.ScaledAdd(-factor, rhs)
}

func (v Vec) Dot(rhs Vec) (float64, error) {
	if v.dim() != rhs.dim() {
		return 0, dimErr("gonumx.Vec.Dot", v.dim(), rhs.dim())
	}
	return mat.Dot(v.V, rhs.V), nil
}

func (v Vec) L1Norm() float64 { return mat.Norm(v.V, 1) }
func (v Vec) L2Norm() float64 { return mat.Norm(v.V, 2) }

func (v Vec) Signum() Vec {
	out := mat.NewVecDense(v.dim(), nil)
	for i := 0; i < v.dim(); i++ {
		x := v.V.AtVec(i)
		switch {
		case x > 0:
			out.SetVec(i, 1)
		case x < 0:
			out.SetVec(i, -1)
		default:
			out.SetVec(i, 0)
		}
	}
	return Vec{V: out}
}

func (v Vec) ZeroLike() Vec { return NewVec(v.dim()) }

func (v Vec) Slice() []float64 {
	out := make([]float64, v.dim())
	for i := range out {
		out[i] = v.V.AtVec(i)
	}
	return out
}

// Mat wraps *mat.Dense to satisfy the mathx matrix capability traits,
// used for Hessians, inverse Hessians and Jacobians.
type Mat struct{ M *mat.Dense }

// NewMat returns a zero rows x cols Mat.
func NewMat(rows, cols int) Mat { return Mat{M: mat.NewDense(rows, cols, nil)} }

// Eye returns the n x n identity matrix.
func Eye(n int) Mat {
	m := NewMat(n, n)
	for i := 0; i < n; i++ {
		m.M.Set(i, i, 1)
	}
	return m
}

func (m Mat) dims() (int, int) { return m.M.Dims() }

func (m Mat) Add(rhs Mat) (Mat, error) {
	r1, c1 := m.dims()
	r2, c2 := rhs.dims()
	if r1 != r2 || c1 != c2 {
		return Mat{}, dimErr("gonumx.Mat.Add", r1*c1, r2*c2)
	}
	out := mat.NewDense(r1, c1, nil)
	out.Add(m.M, rhs.M)
	return Mat{M: out}, nil
}

func (m Mat) Sub(rhs Mat) (Mat, error) {
	r1, c1 := m.dims()
	r2, c2 := rhs.dims()
	if r1 != r2 || c1 != c2 {
		return Mat{}, dimErr("gonumx.Mat.Sub", r1*c1, r2*c2)
	}
	out := mat.NewDense(r1, c1, nil)
	out.Sub(m.M, rhs.M)
	return Mat{M: out}, nil
}

func (m Mat) DotVector(v Vec) (Vec, error) {
	_, c := m.dims()
	if c != v.dim() {
		return Vec{}, dimErr("gonumx.Mat.DotVector", c, v.dim())
	}
	r, _ := m.dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(m.M, v.V)
	return Vec{V: out}, nil
}

func (m Mat) Dot(rhs Mat) (Mat, error) {
	_, c := m.dims()
	r2, c2 := rhs.dims()
	if c != r2 {
		return Mat{}, dimErr("gonumx.Mat.Dot", c, r2)
	}
	r, _ := m.dims()
	out := mat.NewDense(r, c2, nil)
	out.Mul(m.M, rhs.M)
	return Mat{M: out}, nil
}

func (m Mat) Transpose() Mat {
	r, c := m.dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(m.M.T())
	return Mat{M: out}
}

func (m Mat) Inv() (Mat, error) {
	r, c := m.dims()
	if r != c {
		return Mat{}, argerr.New(argerr.CodeInverseError, fmt.Sprintf("matrix is not square (%dx%d)", r, c))
	}
	out := mat.NewDense(r, c, nil)
	if err := out.Inverse(m.M); err != nil {
		return Mat{}, argerr.Wrap(err, argerr.CodeInverseError, "matrix is singular")
	}
	return Mat{M: out}, nil
}

func (m Mat) ZeroLike() Mat {
	r, c := m.dims()
	return NewMat(r, c)
}

// WeightedDot computes x.W.y for a square weight matrix W.
func WeightedDot(x Vec, w Mat, y Vec) (float64, error) {
	wy, err := w.DotVector(y)
	if err != nil {
		return 0, err
	}
	return x.Dot(wy)
}

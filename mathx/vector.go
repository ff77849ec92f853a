package mathx

import (
	"fmt"
	"math"

	"github.com/go-argmin/argmin/argerr"
)

// Vector is the native dense-vector backend: a plain slice of scalars.
// It is the simplest of the three backends this package family ships
// (the other two, gonumx and lvlathx, live in their own packages so the
// core engine never has to import an external linalg library).
type Vector[F Float] []F

// NewVector returns a Vector of length n with all entries zero.
func NewVector[F Float](n int) Vector[F] {
	return make(Vector[F], n)
}

func dimErr(op string, a, b int) error {
	return argerr.New(argerr.CodeDimensionMismatch, fmt.Sprintf("%s: dimension mismatch (%d vs %d)", op, a, b))
}

func (v Vector[F]) Add(rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.Add", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] + rhs[i]
	}
	return out, nil
}

func (v Vector[F]) Sub(rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.Sub", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] - rhs[i]
	}
	return out, nil
}

func (v Vector[F]) AddScalar(s F) Vector[F] {
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] + s
	}
	return out
}

func (v Vector[F]) SubScalar(s F) Vector[F] {
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] - s
	}
	return out
}

func (v Vector[F]) Mul(rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.Mul", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] * rhs[i]
	}
	return out, nil
}

func (v Vector[F]) Div(rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.Div", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] / rhs[i] // IEEE: division by zero yields +/-Inf or NaN, not an error
	}
	return out, nil
}

func (v Vector[F]) ScaledAdd(factor F, rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.ScaledAdd", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] + factor*rhs[i]
	}
	return out, nil
}

func (v Vector[F]) ScaledSub(factor F, rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.ScaledSub", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		out[i] = v[i] - factor*rhs[i]
	}
	return out, nil
}

func (v Vector[F]) Dot(rhs Vector[F]) (F, error) {
	if len(v) != len(rhs) {
		var zero F
		return zero, dimErr("Vector.Dot", len(v), len(rhs))
	}
	var sum F
	for i := range v {
		sum += v[i] * rhs[i]
	}
	return sum, nil
}

func (v Vector[F]) WeightedDot(w Matrix[F], y Vector[F]) (F, error) {
	wy, err := w.DotVector(y)
	if err != nil {
		var zero F
		return zero, err
	}
	return v.Dot(wy)
}

func (v Vector[F]) L1Norm() F {
	var sum F
	for _, x := range v {
		sum += F(math.Abs(float64(x)))
	}
	return sum
}

func (v Vector[F]) L2Norm() F {
	var sum F
	for _, x := range v {
		sum += x * x
	}
	return F(math.Sqrt(float64(sum)))
}

func (v Vector[F]) MinWith(rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.MinWith", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		if v[i] < rhs[i] {
			out[i] = v[i]
		} else {
			out[i] = rhs[i]
		}
	}
	return out, nil
}

func (v Vector[F]) MaxWith(rhs Vector[F]) (Vector[F], error) {
	if len(v) != len(rhs) {
		return nil, dimErr("Vector.MaxWith", len(v), len(rhs))
	}
	out := make(Vector[F], len(v))
	for i := range v {
		if v[i] > rhs[i] {
			out[i] = v[i]
		} else {
			out[i] = rhs[i]
		}
	}
	return out, nil
}

func (v Vector[F]) Signum() Vector[F] {
	out := make(Vector[F], len(v))
	for i, x := range v {
		switch {
		case x > 0:
			out[i] = 1
		case x < 0:
			out[i] = -1
		default:
			out[i] = 0
		}
	}
	return out
}

func (v Vector[F]) ZeroLike() Vector[F] {
	return make(Vector[F], len(v))
}

func (v Vector[F]) Clone() Vector[F] {
	out := make(Vector[F], len(v))
	copy(out, v)
	return out
}

// RandomVector returns a Vector of length n with entries drawn uniformly
// from [low, high] using rng. Callers seed rng themselves to make runs
// reproducible, matching the RNG-ownership rule solvers follow.
func RandomVector[F Float](rng Rand, n int, low, high F) Vector[F] {
	out := make(Vector[F], n)
	span := float64(high - low)
	for i := range out {
		out[i] = low + F(rng.Float64()*span)
	}
	return out
}

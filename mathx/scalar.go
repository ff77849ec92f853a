package mathx

import "math"

// Scalar adapts a bare Float F into the capability traits, for solvers
// operating on one-dimensional problems where param itself is the
// numeric type rather than a vector of it.
type Scalar[F Float] struct{ V F }

func S[F Float](v F) Scalar[F] { return Scalar[F]{V: v} }

func (s Scalar[F]) Add(rhs Scalar[F]) (Scalar[F], error) { return Scalar[F]{s.V + rhs.V}, nil }
func (s Scalar[F]) Sub(rhs Scalar[F]) (Scalar[F], error) { return Scalar[F]{s.V - rhs.V}, nil }
func (s Scalar[F]) AddScalar(v F) Scalar[F]               { return Scalar[F]{s.V + v} }
func (s Scalar[F]) SubScalar(v F) Scalar[F]               { return Scalar[F]{s.V - v} }
func (s Scalar[F]) Mul(rhs Scalar[F]) (Scalar[F], error) { return Scalar[F]{s.V * rhs.V}, nil }
func (s Scalar[F]) Div(rhs Scalar[F]) (Scalar[F], error) { return Scalar[F]{s.V / rhs.V}, nil }

func (s Scalar[F]) ScaledAdd(factor F, rhs Scalar[F]) (Scalar[F], error) {
	return Scalar[F]{s.V + factor*rhs.V}, nil
}
func (s Scalar[F]) ScaledSub(factor F, rhs Scalar[F]) (Scalar[F], error) {
	return Scalar[F]{s.V - factor*rhs.V}, nil
}

func (s Scalar[F]) Dot(rhs Scalar[F]) (F, error) { return s.V * rhs.V, nil }

func (s Scalar[F]) L1Norm() F { return F(math.Abs(float64(s.V))) }
func (s Scalar[F]) L2Norm() F { return F(math.Abs(float64(s.V))) }

func (s Scalar[F]) MinWith(rhs Scalar[F]) (Scalar[F], error) {
	if s.V < rhs.V {
		return s, nil
	}
	return rhs, nil
}

func (s Scalar[F]) MaxWith(rhs Scalar[F]) (Scalar[F], error) {
	if s.V > rhs.V {
		return s, nil
	}
	return rhs, nil
}

func (s Scalar[F]) Signum() Scalar[F] {
	switch {
	case s.V > 0:
		return Scalar[F]{1}
	case s.V < 0:
		return Scalar[F]{-1}
	default:
		return Scalar[F]{0}
	}
}

func (s Scalar[F]) ZeroLike() Scalar[F] { return Scalar[F]{0} }

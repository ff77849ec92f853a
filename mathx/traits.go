// Package mathx defines the capability traits that let any user-defined
// parameter, gradient, Jacobian or Hessian type participate in the
// engine: addition, subtraction, scaled combination, inner products,
// norms, inversion, transposition, elementwise min/max, sign, and
// random generation. Each capability is a narrow, single-purpose
// interface so that a concrete backend (native slices, gonum, or any
// user type) only has to implement the operations it actually supports.
//
// Implementations never panic on mismatched shapes; they report an
// *argerr.Error with Code CodeDimensionMismatch instead, so solver code
// can propagate failures through the normal error path described in the
// package-level docs of argerr.
package mathx

// Float is the scalar parameter type constraint: ordered arithmetic plus
// the conversions the engine needs from integer literals. Both 32- and
// 64-bit IEEE floats satisfy it, and so does any named type derived from
// them, so callers may carry their own precision or units wrapper.
type Float interface {
	~float32 | ~float64
}

// Adder computes a pointwise sum, self + rhs. Dimension mismatches are
// reported through the returned error rather than a panic.
type Adder[Rhs, Out any] interface {
	Add(rhs Rhs) (Out, error)
}

// Suber computes a pointwise difference, self - rhs.
type Suber[Rhs, Out any] interface {
	Sub(rhs Rhs) (Out, error)
}

// ScalarAdder computes self + scalar, broadcasting scalar to every lane.
type ScalarAdder[F Float, Out any] interface {
	AddScalar(scalar F) Out
}

// ScalarSuber computes self - scalar, broadcasting scalar to every lane.
type ScalarSuber[F Float, Out any] interface {
	SubScalar(scalar F) Out
}

// Muler computes a pointwise product.
type Muler[Rhs, Out any] interface {
	Mul(rhs Rhs) (Out, error)
}

// Diver computes a pointwise quotient. Division by zero in any lane
// yields a non-finite IEEE value in that lane rather than an error.
type Diver[Rhs, Out any] interface {
	Div(rhs Rhs) (Out, error)
}

// ScaledAdder computes self + factor*rhs in a single fused pass.
type ScaledAdder[F Float, Rhs, Out any] interface {
	ScaledAdd(factor F, rhs Rhs) (Out, error)
}

// ScaledSuber computes self - factor*rhs in a single fused pass.
type ScaledSuber[F Float, Rhs, Out any] interface {
	ScaledSub(factor F, rhs Rhs) (Out, error)
}

// Dotter computes an inner product. Depending on the concrete types
// this models vec.vec -> scalar, mat.vec -> vec, or mat.mat -> mat.
type Dotter[Rhs, Out any] interface {
	Dot(rhs Rhs) (Out, error)
}

// WeightedDotter computes x.W.y for a square weight matrix W of
// compatible size.
type WeightedDotter[W, Rhs, F any] interface {
	WeightedDot(w W, y Rhs) (F, error)
}

// L1Normer computes the L1 (taxicab) norm. The zero value returns
// exactly zero.
type L1Normer[F Float] interface {
	L1Norm() F
}

// L2Normer computes the L2 (Euclidean) norm. The zero value returns
// exactly zero.
type L2Normer[F Float] interface {
	L2Norm() F
}

// Inverter computes a matrix inverse, failing with an *argerr.Error of
// Code CodeInverseError when the receiver is singular or non-square.
type Inverter[Out any] interface {
	Inv() (Out, error)
}

// Transposer computes a matrix transpose.
type Transposer[Out any] interface {
	Transpose() Out
}

// MinMaxer computes elementwise minimum and maximum against rhs.
type MinMaxer[Rhs, Out any] interface {
	MinWith(rhs Rhs) (Out, error)
	MaxWith(rhs Rhs) (Out, error)
}

// Signumer computes the elementwise sign, with sign(0) defined to be 0.
type Signumer[Out any] interface {
	Signum() Out
}

// ZeroLiker constructs a zero-valued value with the same shape as self.
type ZeroLiker[Out any] interface {
	ZeroLike() Out
}

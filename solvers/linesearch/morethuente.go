// Package linesearch provides step-size search along a descent direction,
// used by the gradient-based solvers in the parent solvers package.
// MoreThuente implements the bracketing-and-zoom search described by
// Nocedal & Wright (Algorithms 3.5/3.6): it first brackets an interval
// containing a point satisfying the strong Wolfe conditions, then
// narrows that interval by bisection until both the sufficient-decrease
// (Armijo) and curvature conditions hold.
package linesearch

import (
	"github.com/go-argmin/argmin/argerr"
	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/problem"
)

// Vector is the minimal capability a parameter type must satisfy to be
// searched along: a fused scaled-add to step, and a dot product against
// the search direction to evaluate the directional derivative.
type Vector[F mathx.Float, Self any] interface {
	mathx.ScaledAdder[F, Self, Self]
	mathx.Dotter[Self, F]
}

// Result reports the step found and the problem evaluations at it, so
// the caller can fold them into its state without re-evaluating.
type Result[P any, F mathx.Float] struct {
	Param    P
	Cost     F
	Gradient P
	Alpha    F
}

// MoreThuente holds the search's tuning constants. C1 is the
// sufficient-decrease constant, C2 the curvature constant; the defaults
// (1e-4, 0.9) are the standard choices for gradient-descent-family
// methods.
type MoreThuente[Prob any, P Vector[F, P], F mathx.Float] struct {
	C1       F
	C2       F
	MaxAlpha F
	MaxIters int
	MaxZoom  int
}

// NewMoreThuente returns a MoreThuente configured with the standard
// strong-Wolfe constants.
func NewMoreThuente[Prob any, P Vector[F, P], F mathx.Float]() MoreThuente[Prob, P, F] {
	return MoreThuente[Prob, P, F]{
		C1:       F(1e-4),
		C2:       F(0.9),
		MaxAlpha: F(1e6),
		MaxIters: 25,
		MaxZoom:  25,
	}
}

func (ls MoreThuente[Prob, P, F]) eval(w *problem.Wrapper[Prob], param, direction P, alpha F) (P, F, P, F, error) {
	trial, err := param.ScaledAdd(alpha, direction)
	if err != nil {
		var zeroP P
		var zeroF F
		return zeroP, zeroF, zeroP, zeroF, err
	}
	cost, err := problem.Cost[Prob, P, F](w, trial)
	if err != nil {
		var zeroP P
		var zeroF F
		return zeroP, zeroF, zeroP, zeroF, err
	}
	grad, err := problem.Gradient[Prob, P, P](w, trial)
	if err != nil {
		var zeroP P
		var zeroF F
		return zeroP, zeroF, zeroP, zeroF, err
	}
	gDotD, err := grad.Dot(direction)
	if err != nil {
		var zeroP P
		var zeroF F
		return zeroP, zeroF, zeroP, zeroF, err
	}
	return trial, cost, grad, gDotD, nil
}

// Search finds a step length alpha along direction from param satisfying
// the strong Wolfe conditions, given the cost and gradient already
// known at param (so the caller need not re-evaluate alpha=0).
func (ls MoreThuente[Prob, P, F]) Search(w *problem.Wrapper[Prob], param, direction P, cost F, gradient P) (Result[P, F], error) {
	var zero Result[P, F]

	phi0 := cost
	dPhi0, err := gradient.Dot(direction)
	if err != nil {
		return zero, err
	}
	if dPhi0 >= 0 {
		return zero, argerr.New(argerr.CodeConditionViolated, "line search direction is not a descent direction")
	}

	alphaPrev := F(0)
	phiPrev := phi0
	alpha := F(1)
	if alpha > ls.MaxAlpha {
		alpha = ls.MaxAlpha
	}

	for i := 0; i < ls.MaxIters; i++ {
		trial, phi, grad, dPhi, err := ls.eval(w, param, direction, alpha)
		if err != nil {
			return zero, err
		}

		if phi > phi0+ls.C1*alpha*dPhi0 || (i > 0 && phi >= phiPrev) {
			return ls.zoom(w, param, direction, phi0, dPhi0, alphaPrev, alpha, phiPrev, phi)
		}

		if absF(dPhi) <= -ls.C2*dPhi0 {
			return Result[P, F]{Param: trial, Cost: phi, Gradient: grad, Alpha: alpha}, nil
		}

		if dPhi >= 0 {
			return ls.zoom(w, param, direction, phi0, dPhi0, alpha, alphaPrev, phi, phiPrev)
		}

		alphaPrev = alpha
		phiPrev = phi
		alpha *= 2
		if alpha > ls.MaxAlpha {
			alpha = ls.MaxAlpha
		}
	}

	return zero, argerr.New(argerr.CodeConditionViolated, "line search exceeded max iterations without satisfying the Wolfe conditions")
}

// zoom narrows [lo, hi] (phiLo/phiHi already evaluated) until a point
// satisfying both Wolfe conditions is found, using bisection as the
// interpolation rule.
func (ls MoreThuente[Prob, P, F]) zoom(w *problem.Wrapper[Prob], param, direction P, phi0, dPhi0, lo, hi, phiLo, phiHi F) (Result[P, F], error) {
	var zero Result[P, F]

	for i := 0; i < ls.MaxZoom; i++ {
		alpha := (lo + hi) / 2
		trial, phi, grad, dPhi, err := ls.eval(w, param, direction, alpha)
		if err != nil {
			return zero, err
		}

		if phi > phi0+ls.C1*alpha*dPhi0 || phi >= phiLo {
			hi = alpha
			phiHi = phi
			continue
		}

		if absF(dPhi) <= -ls.C2*dPhi0 {
			return Result[P, F]{Param: trial, Cost: phi, Gradient: grad, Alpha: alpha}, nil
		}

		if dPhi*(hi-lo) >= 0 {
			hi = lo
			phiHi = phiLo
		}
		lo = alpha
		phiLo = phi
	}

	return zero, argerr.New(argerr.CodeConditionViolated, "line search zoom phase failed to converge")
}

func absF[F mathx.Float](v F) F {
	if v < 0 {
		return -v
	}
	return v
}

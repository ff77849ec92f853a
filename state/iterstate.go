package state

import (
	"math"
	"time"

	"github.com/go-argmin/argmin/mathx"
)

// IterState holds the bookkeeping for a single-point iterative solver:
// the current and previous parameter, the engine-tracked best, and
// whichever of gradient/jacobian/hessian/residuals the solver populates.
// Fields a solver never touches simply stay nil.
type IterState[P, G, J, H, R any, F mathx.Float] struct {
	param     *P
	prevParam *P

	bestParam     *P
	prevBestParam *P

	cost     F
	prevCost F

	bestCost     F
	prevBestCost F

	targetCost F

	gradient     *G
	prevGradient *G

	jacobian     *J
	prevJacobian *J

	hessian     *H
	prevHessian *H

	invHessian     *H
	prevInvHessian *H

	residuals     *R
	prevResiduals *R

	iter         uint64
	lastBestIter uint64
	maxIters     uint64

	counts map[string]uint64
	time   time.Duration

	termination TerminationStatus
	isBest      bool
}

// New returns a fresh IterState with cost and best_cost at +Inf,
// target_cost at -Inf, and an unbounded iteration budget, matching the
// engine's "no termination criterion satisfied until configured
// otherwise" default.
func New[P, G, J, H, R any, F mathx.Float]() *IterState[P, G, J, H, R, F] {
	inf := F(math.Inf(1))
	return &IterState[P, G, J, H, R, F]{
		cost:         inf,
		prevCost:     inf,
		bestCost:     inf,
		prevBestCost: inf,
		targetCost:   F(math.Inf(-1)),
		maxIters:     math.MaxUint64,
		termination:  NotTerminated(),
	}
}

// SetParam seeds the initial parameter before the first iteration runs,
// on the state handed to executor.New or inside Executor.Configure.
func (s *IterState[P, G, J, H, R, F]) SetParam(p P) *IterState[P, G, J, H, R, F] {
	s.param = &p
	return s
}

// SetMaxIters configures the iteration budget.
func (s *IterState[P, G, J, H, R, F]) SetMaxIters(n uint64) *IterState[P, G, J, H, R, F] {
	s.maxIters = n
	return s
}

// SetTargetCost configures the cost threshold that ends the run early.
func (s *IterState[P, G, J, H, R, F]) SetTargetCost(c F) *IterState[P, G, J, H, R, F] {
	s.targetCost = c
	return s
}

func (s *IterState[P, G, J, H, R, F]) SetGradient(g G) *IterState[P, G, J, H, R, F] {
	s.gradient = &g
	return s
}

func (s *IterState[P, G, J, H, R, F]) SetJacobian(j J) *IterState[P, G, J, H, R, F] {
	s.jacobian = &j
	return s
}

func (s *IterState[P, G, J, H, R, F]) SetHessian(h H) *IterState[P, G, J, H, R, F] {
	s.hessian = &h
	return s
}

func (s *IterState[P, G, J, H, R, F]) SetInvHessian(h H) *IterState[P, G, J, H, R, F] {
	s.invHessian = &h
	return s
}

func (s *IterState[P, G, J, H, R, F]) SetResiduals(r R) *IterState[P, G, J, H, R, F] {
	s.residuals = &r
	return s
}

// Update records a new (param, cost) pair produced by an iteration.
// The previous param/cost are preserved, and the best is replaced when
// cost < best_cost, or when both the new cost and the current best are
// non-finite — the engine's "first finite cost wins; last write wins if
// nothing is ever finite" rule. IsBest reports the outcome of the most
// recent call until the next one.
func (s *IterState[P, G, J, H, R, F]) Update(param P, cost F) {
	s.prevParam = s.param
	s.param = &param
	s.prevCost = s.cost
	s.cost = cost

	replace := cost < s.bestCost || (isNonFinite(cost) && isNonFinite(s.bestCost))
	s.isBest = replace
	if replace {
		s.prevBestParam = s.bestParam
		s.bestParam = &param
		s.prevBestCost = s.bestCost
		s.bestCost = cost
		s.lastBestIter = s.iter
	}
}

func isNonFinite[F mathx.Float](v F) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// UpdateGradient records a newly evaluated gradient, shifting the prior
// one into PrevGradient.
func (s *IterState[P, G, J, H, R, F]) UpdateGradient(g G) {
	s.prevGradient = s.gradient
	s.gradient = &g
}

func (s *IterState[P, G, J, H, R, F]) UpdateJacobian(j J) {
	s.prevJacobian = s.jacobian
	s.jacobian = &j
}

func (s *IterState[P, G, J, H, R, F]) UpdateHessian(h H) {
	s.prevHessian = s.hessian
	s.hessian = &h
}

func (s *IterState[P, G, J, H, R, F]) UpdateInvHessian(h H) {
	s.prevInvHessian = s.invHessian
	s.invHessian = &h
}

func (s *IterState[P, G, J, H, R, F]) UpdateResiduals(r R) {
	s.prevResiduals = s.residuals
	s.residuals = &r
}

func (s *IterState[P, G, J, H, R, F]) IncrementIter() { s.iter++ }
func (s *IterState[P, G, J, H, R, F]) Iter() uint64    { return s.iter }
func (s *IterState[P, G, J, H, R, F]) MaxIters() uint64 { return s.maxIters }
func (s *IterState[P, G, J, H, R, F]) LastBestIter() uint64 { return s.lastBestIter }

func (s *IterState[P, G, J, H, R, F]) SetTime(d time.Duration) { s.time = d }
func (s *IterState[P, G, J, H, R, F]) Time() time.Duration     { return s.time }

func (s *IterState[P, G, J, H, R, F]) TerminationStatus() TerminationStatus {
	return s.termination
}
func (s *IterState[P, G, J, H, R, F]) TerminateWith(reason TerminationReason) {
	s.termination.Latch(reason)
}

func (s *IterState[P, G, J, H, R, F]) IsBest() bool { return s.isBest }

func (s *IterState[P, G, J, H, R, F]) SetCounts(c map[string]uint64) { s.counts = c }
func (s *IterState[P, G, J, H, R, F]) Counts() map[string]uint64     { return s.counts }

func (s *IterState[P, G, J, H, R, F]) BestCostF64() float64   { return float64(s.bestCost) }
func (s *IterState[P, G, J, H, R, F]) TargetCostF64() float64 { return float64(s.targetCost) }

func (s *IterState[P, G, J, H, R, F]) Param() (P, bool) {
	if s.param == nil {
		var zero P
		return zero, false
	}
	return *s.param, true
}

func (s *IterState[P, G, J, H, R, F]) PrevParam() (P, bool) {
	if s.prevParam == nil {
		var zero P
		return zero, false
	}
	return *s.prevParam, true
}

func (s *IterState[P, G, J, H, R, F]) BestParam() (P, bool) {
	if s.bestParam == nil {
		var zero P
		return zero, false
	}
	return *s.bestParam, true
}

func (s *IterState[P, G, J, H, R, F]) PrevBestParam() (P, bool) {
	if s.prevBestParam == nil {
		var zero P
		return zero, false
	}
	return *s.prevBestParam, true
}

func (s *IterState[P, G, J, H, R, F]) Cost() F         { return s.cost }
func (s *IterState[P, G, J, H, R, F]) PrevCost() F     { return s.prevCost }
func (s *IterState[P, G, J, H, R, F]) BestCost() F     { return s.bestCost }
func (s *IterState[P, G, J, H, R, F]) PrevBestCost() F { return s.prevBestCost }
func (s *IterState[P, G, J, H, R, F]) TargetCost() F   { return s.targetCost }

func (s *IterState[P, G, J, H, R, F]) Gradient() (G, bool) {
	if s.gradient == nil {
		var zero G
		return zero, false
	}
	return *s.gradient, true
}

func (s *IterState[P, G, J, H, R, F]) PrevGradient() (G, bool) {
	if s.prevGradient == nil {
		var zero G
		return zero, false
	}
	return *s.prevGradient, true
}

func (s *IterState[P, G, J, H, R, F]) Jacobian() (J, bool) {
	if s.jacobian == nil {
		var zero J
		return zero, false
	}
	return *s.jacobian, true
}

func (s *IterState[P, G, J, H, R, F]) PrevJacobian() (J, bool) {
	if s.prevJacobian == nil {
		var zero J
		return zero, false
	}
	return *s.prevJacobian, true
}

func (s *IterState[P, G, J, H, R, F]) Hessian() (H, bool) {
	if s.hessian == nil {
		var zero H
		return zero, false
	}
	return *s.hessian, true
}

func (s *IterState[P, G, J, H, R, F]) PrevHessian() (H, bool) {
	if s.prevHessian == nil {
		var zero H
		return zero, false
	}
	return *s.prevHessian, true
}

func (s *IterState[P, G, J, H, R, F]) InvHessian() (H, bool) {
	if s.invHessian == nil {
		var zero H
		return zero, false
	}
	return *s.invHessian, true
}

func (s *IterState[P, G, J, H, R, F]) PrevInvHessian() (H, bool) {
	if s.prevInvHessian == nil {
		var zero H
		return zero, false
	}
	return *s.prevInvHessian, true
}

func (s *IterState[P, G, J, H, R, F]) Residuals() (R, bool) {
	if s.residuals == nil {
		var zero R
		return zero, false
	}
	return *s.residuals, true
}

func (s *IterState[P, G, J, H, R, F]) PrevResiduals() (R, bool) {
	if s.prevResiduals == nil {
		var zero R
		return zero, false
	}
	return *s.prevResiduals, true
}

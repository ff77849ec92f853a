package problem

import (
	"context"
	"sync/atomic"

	"github.com/go-argmin/argmin/argerr"
)

// Counters holds the six monotonic per-capability invocation counts.
// Bulk calls of N increment their counter by N. Counters are safe for
// concurrent increment from parallel bulk dispatch.
type Counters struct {
	operator atomic.Uint64
	cost     atomic.Uint64
	gradient atomic.Uint64
	jacobian atomic.Uint64
	hessian  atomic.Uint64
	anneal   atomic.Uint64
}

// Snapshot returns the current counts as a plain map, suitable for
// copying into a State.
func (c *Counters) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"operator": c.operator.Load(),
		"cost":     c.cost.Load(),
		"gradient": c.gradient.Load(),
		"jacobian": c.jacobian.Load(),
		"hessian":  c.hessian.Load(),
		"anneal":   c.anneal.Load(),
	}
}

// Wrapper owns the user's Problem value for the life of a run and
// dispatches every capability call through it, counting scalar
// invocations as it goes. Solvers must call through the Wrapper — never
// directly against the user's problem — so the counts stay faithful.
type Wrapper[Prob any] struct {
	problem  Prob
	counts   *Counters
	parallel bool
}

// NewWrapper constructs a Wrapper around p. parallel controls whether
// bulk calls are dispatched concurrently when both the engine has
// parallel evaluation enabled and the capability's Parallelize() hook
// (if implemented) agrees; it defaults to sequential evaluation per the
// engine's "gate on a compile-time flag, default sequential" design.
func NewWrapper[Prob any](p Prob, parallel bool) *Wrapper[Prob] {
	return &Wrapper[Prob]{problem: p, counts: &Counters{}, parallel: parallel}
}

// Problem returns the wrapped user problem. Solvers should prefer the
// capability dispatch functions below; Problem exists for sub-solvers
// (e.g. a line search borrowing the outer wrapper's problem) that need
// the raw value while counts still accrue into the outer Wrapper.
func (w *Wrapper[Prob]) Problem() Prob { return w.problem }

// Counts returns a snapshot of the six per-capability counters.
func (w *Wrapper[Prob]) Counts() map[string]uint64 { return w.counts.Snapshot() }

func notImplemented(capability string) error {
	return argerr.New(argerr.CodeNotInitialized, "problem does not implement "+capability)
}

// Cost evaluates the scalar objective and increments the cost counter.
func Cost[Prob, P, F any](w *Wrapper[Prob], param P) (F, error) {
	var zero F
	cf, ok := any(w.problem).(CostFunction[P, F])
	if !ok {
		return zero, notImplemented("CostFunction")
	}
	v, err := cf.Cost(param)
	if err != nil {
		return zero, err
	}
	w.counts.cost.Add(1)
	return v, nil
}

// BulkCost evaluates the objective over params, in parallel when both
// the Wrapper and the capability (via Parallelize) allow it.
func BulkCost[Prob, P, F any](ctx context.Context, w *Wrapper[Prob], params []P) ([]F, error) {
	if bcf, ok := any(w.problem).(BulkCostFunction[P, F]); ok {
		v, err := bcf.BulkCost(params)
		if err != nil {
			return nil, err
		}
		w.counts.cost.Add(uint64(len(params)))
		return v, nil
	}
	cf, ok := any(w.problem).(CostFunction[P, F])
	if !ok {
		return nil, notImplemented("CostFunction")
	}
	par := w.parallel && parallelize(any(w.problem))
	out, err := dispatchBulk(ctx, par, params, cf.Cost)
	if err != nil {
		return nil, err
	}
	w.counts.cost.Add(uint64(len(params)))
	return out, nil
}

// Gradient evaluates the gradient and increments the gradient counter.
func Gradient[Prob, P, G any](w *Wrapper[Prob], param P) (G, error) {
	var zero G
	gf, ok := any(w.problem).(GradientFunction[P, G])
	if !ok {
		return zero, notImplemented("Gradient")
	}
	v, err := gf.Gradient(param)
	if err != nil {
		return zero, err
	}
	w.counts.gradient.Add(1)
	return v, nil
}

func BulkGradient[Prob, P, G any](ctx context.Context, w *Wrapper[Prob], params []P) ([]G, error) {
	if bg, ok := any(w.problem).(BulkGradientFunction[P, G]); ok {
		v, err := bg.BulkGradient(params)
		if err != nil {
			return nil, err
		}
		w.counts.gradient.Add(uint64(len(params)))
		return v, nil
	}
	gf, ok := any(w.problem).(GradientFunction[P, G])
	if !ok {
		return nil, notImplemented("Gradient")
	}
	par := w.parallel && parallelize(any(w.problem))
	out, err := dispatchBulk(ctx, par, params, gf.Gradient)
	if err != nil {
		return nil, err
	}
	w.counts.gradient.Add(uint64(len(params)))
	return out, nil
}

// JacobianOf evaluates the Jacobian and increments the jacobian counter.
func JacobianOf[Prob, P, J any](w *Wrapper[Prob], param P) (J, error) {
	var zero J
	jf, ok := any(w.problem).(Jacobian[P, J])
	if !ok {
		return zero, notImplemented("Jacobian")
	}
	v, err := jf.Jacobian(param)
	if err != nil {
		return zero, err
	}
	w.counts.jacobian.Add(1)
	return v, nil
}

func BulkJacobian[Prob, P, J any](ctx context.Context, w *Wrapper[Prob], params []P) ([]J, error) {
	if bj, ok := any(w.problem).(BulkJacobianFunction[P, J]); ok {
		v, err := bj.BulkJacobian(params)
		if err != nil {
			return nil, err
		}
		w.counts.jacobian.Add(uint64(len(params)))
		return v, nil
	}
	jf, ok := any(w.problem).(Jacobian[P, J])
	if !ok {
		return nil, notImplemented("Jacobian")
	}
	par := w.parallel && parallelize(any(w.problem))
	out, err := dispatchBulk(ctx, par, params, jf.Jacobian)
	if err != nil {
		return nil, err
	}
	w.counts.jacobian.Add(uint64(len(params)))
	return out, nil
}

// HessianOf evaluates the Hessian and increments the hessian counter.
func HessianOf[Prob, P, H any](w *Wrapper[Prob], param P) (H, error) {
	var zero H
	hf, ok := any(w.problem).(Hessian[P, H])
	if !ok {
		return zero, notImplemented("Hessian")
	}
	v, err := hf.Hessian(param)
	if err != nil {
		return zero, err
	}
	w.counts.hessian.Add(1)
	return v, nil
}

func BulkHessian[Prob, P, H any](ctx context.Context, w *Wrapper[Prob], params []P) ([]H, error) {
	if bh, ok := any(w.problem).(BulkHessianFunction[P, H]); ok {
		v, err := bh.BulkHessian(params)
		if err != nil {
			return nil, err
		}
		w.counts.hessian.Add(uint64(len(params)))
		return v, nil
	}
	hf, ok := any(w.problem).(Hessian[P, H])
	if !ok {
		return nil, notImplemented("Hessian")
	}
	par := w.parallel && parallelize(any(w.problem))
	out, err := dispatchBulk(ctx, par, params, hf.Hessian)
	if err != nil {
		return nil, err
	}
	w.counts.hessian.Add(uint64(len(params)))
	return out, nil
}

// ApplyOp evaluates the forward operator and increments the operator
// counter.
func ApplyOp[Prob, P, O any](w *Wrapper[Prob], param P) (O, error) {
	var zero O
	of, ok := any(w.problem).(Operator[P, O])
	if !ok {
		return zero, notImplemented("Operator")
	}
	v, err := of.Apply(param)
	if err != nil {
		return zero, err
	}
	w.counts.operator.Add(1)
	return v, nil
}

func BulkApplyOp[Prob, P, O any](ctx context.Context, w *Wrapper[Prob], params []P) ([]O, error) {
	if bo, ok := any(w.problem).(BulkOperator[P, O]); ok {
		v, err := bo.BulkApply(params)
		if err != nil {
			return nil, err
		}
		w.counts.operator.Add(uint64(len(params)))
		return v, nil
	}
	of, ok := any(w.problem).(Operator[P, O])
	if !ok {
		return nil, notImplemented("Operator")
	}
	par := w.parallel && parallelize(any(w.problem))
	out, err := dispatchBulk(ctx, par, params, of.Apply)
	if err != nil {
		return nil, err
	}
	w.counts.operator.Add(uint64(len(params)))
	return out, nil
}

// AnnealAt perturbs param at temperature and increments the anneal
// counter.
func AnnealAt[Prob, P any, F any](w *Wrapper[Prob], param P, temperature F) (P, error) {
	var zero P
	af, ok := any(w.problem).(Anneal[P, F])
	if !ok {
		return zero, notImplemented("Anneal")
	}
	v, err := af.Anneal(param, temperature)
	if err != nil {
		return zero, err
	}
	w.counts.anneal.Add(1)
	return v, nil
}

func BulkAnnealAt[Prob, P any, F any](ctx context.Context, w *Wrapper[Prob], params []P, temperature F) ([]P, error) {
	if ba, ok := any(w.problem).(BulkAnneal[P, F]); ok {
		v, err := ba.BulkAnneal(params, temperature)
		if err != nil {
			return nil, err
		}
		w.counts.anneal.Add(uint64(len(params)))
		return v, nil
	}
	af, ok := any(w.problem).(Anneal[P, F])
	if !ok {
		return nil, notImplemented("Anneal")
	}
	par := w.parallel && parallelize(any(w.problem))
	out, err := dispatchBulk(ctx, par, params, func(p P) (P, error) { return af.Anneal(p, temperature) })
	if err != nil {
		return nil, err
	}
	w.counts.anneal.Add(uint64(len(params)))
	return out, nil
}

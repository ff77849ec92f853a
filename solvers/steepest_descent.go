// Package solvers provides the engine's worked solver implementations:
// gradient-based steepest descent over IterState, and particle swarm
// optimization over PopulationState. Both are ordinary Solver
// implementations built on the problem and state packages; nothing in
// executor or state knows about them specifically.
package solvers

import (
	"math"

	"github.com/go-argmin/argmin/argerr"
	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/problem"
	"github.com/go-argmin/argmin/solvers/linesearch"
	"github.com/go-argmin/argmin/state"
)

// descentState is the concrete IterState shape SteepestDescent drives:
// gradient and param share type P, Jacobian/Hessian/Residuals unused.
type descentState[P any, F mathx.Float] = *state.IterState[P, P, struct{}, struct{}, struct{}, F]

// SteepestDescent moves along the negative gradient at each iteration,
// sizing the step with a strong-Wolfe line search. The problem must
// implement problem.CostFunction[P, F] and problem.Gradient[P, P]; the
// gradient and the parameter share a type because the search direction
// (the negated gradient) is added back onto the parameter directly.
type SteepestDescent[Prob any, P linesearch.Vector[F, P], F mathx.Float] struct {
	lineSearch linesearch.MoreThuente[Prob, P, F]
	gradTol    F
}

// NewSteepestDescent returns a SteepestDescent using the default
// strong-Wolfe line search constants and a gradient-norm convergence
// tolerance of gradTol.
func NewSteepestDescent[Prob any, P linesearch.Vector[F, P], F mathx.Float](gradTol F) *SteepestDescent[Prob, P, F] {
	return &SteepestDescent[Prob, P, F]{
		lineSearch: linesearch.NewMoreThuente[Prob, P, F](),
		gradTol:    gradTol,
	}
}

func (s *SteepestDescent[Prob, P, F]) Name() string { return "steepest_descent" }

func l2Norm[F mathx.Float, P linesearch.Vector[F, P]](v P) (F, error) {
	sq, err := v.Dot(v)
	if err != nil {
		var zero F
		return zero, err
	}
	return F(math.Sqrt(float64(sq))), nil
}

func (s *SteepestDescent[Prob, P, F]) Init(w *problem.Wrapper[Prob], st descentState[P, F]) (descentState[P, F], *kv.KV, error) {
	param, ok := st.Param()
	if !ok {
		return st, nil, argerr.New(argerr.CodeNotInitialized, "steepest descent requires an initial param").WithField("param")
	}
	cost, err := problem.Cost[Prob, P, F](w, param)
	if err != nil {
		return st, nil, err
	}
	grad, err := problem.Gradient[Prob, P, P](w, param)
	if err != nil {
		return st, nil, err
	}
	st.Update(param, cost)
	st.UpdateGradient(grad)

	norm, err := l2Norm[F](grad)
	if err != nil {
		return st, nil, err
	}
	snapshot := kv.New().Set("gradient_norm", kv.Float(float64(norm)))
	return st, snapshot, nil
}

func (s *SteepestDescent[Prob, P, F]) NextIter(w *problem.Wrapper[Prob], st descentState[P, F]) (descentState[P, F], *kv.KV, error) {
	param, _ := st.Param()
	grad, ok := st.Gradient()
	if !ok {
		return st, nil, argerr.New(argerr.CodeNotInitialized, "steepest descent state has no gradient; Init must run first")
	}
	cost := st.Cost()

	// direction = -grad, computed as grad + (-2)*grad so the fused op
	// never needs a correctly-shaped zero value of P.
	direction, err := grad.ScaledAdd(F(-2), grad)
	if err != nil {
		return st, nil, err
	}

	result, err := s.lineSearch.Search(w, param, direction, cost, grad)
	if err != nil {
		return st, nil, err
	}

	st.Update(result.Param, result.Cost)
	st.UpdateGradient(result.Gradient)

	snapshot := kv.New().
		Set("alpha", kv.Float(float64(result.Alpha))).
		Set("cost", kv.Float(float64(result.Cost)))
	return st, snapshot, nil
}

func (s *SteepestDescent[Prob, P, F]) Terminate(st descentState[P, F]) state.TerminationStatus {
	grad, ok := st.Gradient()
	if !ok {
		return state.NotTerminated()
	}
	norm, err := l2Norm[F](grad)
	if err != nil {
		return state.NotTerminated()
	}
	if norm <= s.gradTol {
		status := state.NotTerminated()
		status.Latch(state.SolverConverged())
		return status
	}
	return state.NotTerminated()
}

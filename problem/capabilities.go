// Package problem defines the capability traits a user-supplied problem
// may implement (Operator, CostFunction, GradientFunction, Jacobian, Hessian,
// Anneal) and the engine-owned Wrapper that dispatches to them while
// counting every scalar evaluation.
package problem

// Operator evaluates a general forward operator, param -> output.
type Operator[P, O any] interface {
	Apply(param P) (O, error)
}

// BulkOperator is the optional bulk variant of Operator. When absent,
// the wrapper falls back to calling Apply in a loop.
type BulkOperator[P, O any] interface {
	BulkApply(params []P) ([]O, error)
}

// CostFunction evaluates the scalar objective, param -> cost.
type CostFunction[P any, F any] interface {
	Cost(param P) (F, error)
}

type BulkCostFunction[P any, F any] interface {
	BulkCost(params []P) ([]F, error)
}

// GradientFunction evaluates the gradient of the objective at param.
type GradientFunction[P, G any] interface {
	Gradient(param P) (G, error)
}

type BulkGradientFunction[P, G any] interface {
	BulkGradient(params []P) ([]G, error)
}

// Jacobian evaluates the Jacobian of a vector-valued residual at param.
type Jacobian[P, J any] interface {
	Jacobian(param P) (J, error)
}

type BulkJacobianFunction[P, J any] interface {
	BulkJacobian(params []P) ([]J, error)
}

// Hessian evaluates the Hessian of the objective at param.
type Hessian[P, H any] interface {
	Hessian(param P) (H, error)
}

type BulkHessianFunction[P, H any] interface {
	BulkHessian(params []P) ([]H, error)
}

// Anneal perturbs param at the given temperature, used by simulated
// annealing and related heuristics.
type Anneal[P any, F any] interface {
	Anneal(param P, temperature F) (P, error)
}

type BulkAnneal[P any, F any] interface {
	BulkAnneal(params []P, temperature F) ([]P, error)
}

// Parallelizable lets a problem opt in or out of parallel bulk
// evaluation independently of whether the engine has it enabled. It is
// implemented once per problem type, and its single answer applies to
// every capability of that problem alike; a capability cannot opt in or
// out on its own. Problems that do not implement it are treated as
// parallelize() == true, the spec's stated default.
type Parallelizable interface {
	Parallelize() bool
}

func parallelize(v any) bool {
	if p, ok := v.(Parallelizable); ok {
		return p.Parallelize()
	}
	return true
}

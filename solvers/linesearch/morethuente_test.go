package linesearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/problem"
	"github.com/go-argmin/argmin/solvers/linesearch"
)

// sphereProblem is f(x) = sum(x_i^2), gradient 2x; a convex bowl with an
// exactly-computable minimizer, the standard line-search smoke test.
type sphereProblem struct{}

func (sphereProblem) Cost(x mathx.Vector[float64]) (float64, error) {
	c, err := x.Dot(x)
	return c, err
}

func (sphereProblem) Gradient(x mathx.Vector[float64]) (mathx.Vector[float64], error) {
	return x.ScaledAdd(1, x)
}

func TestMoreThuenteFindsDecreasingStep(t *testing.T) {
	w := problem.NewWrapper[sphereProblem](sphereProblem{}, false)
	ls := linesearch.NewMoreThuente[sphereProblem, mathx.Vector[float64], float64]()

	param := mathx.Vector[float64]{3, 4}
	cost, err := problem.Cost[sphereProblem, mathx.Vector[float64], float64](w, param)
	require.NoError(t, err)
	grad, err := problem.Gradient[sphereProblem, mathx.Vector[float64], mathx.Vector[float64]](w, param)
	require.NoError(t, err)

	direction, err := grad.ScaledAdd(-2, grad)
	require.NoError(t, err)

	result, err := ls.Search(w, param, direction, cost, grad)
	require.NoError(t, err)

	assert.Less(t, result.Cost, cost, "line search must decrease cost along a descent direction")
	assert.Greater(t, result.Alpha, 0.0)
}

func TestMoreThuenteRejectsAscentDirection(t *testing.T) {
	w := problem.NewWrapper[sphereProblem](sphereProblem{}, false)
	ls := linesearch.NewMoreThuente[sphereProblem, mathx.Vector[float64], float64]()

	param := mathx.Vector[float64]{3, 4}
	cost, err := problem.Cost[sphereProblem, mathx.Vector[float64], float64](w, param)
	require.NoError(t, err)
	grad, err := problem.Gradient[sphereProblem, mathx.Vector[float64], mathx.Vector[float64]](w, param)
	require.NoError(t, err)

	_, err = ls.Search(w, param, grad, cost, grad)
	require.Error(t, err, "direction equal to the gradient is an ascent direction and must be rejected")
}

package solvers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/executor"
	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/solvers"
	"github.com/go-argmin/argmin/state"
)

type sphereProblem struct{}

func (sphereProblem) Cost(x mathx.Vector[float64]) (float64, error) {
	return x.Dot(x)
}

func (sphereProblem) Gradient(x mathx.Vector[float64]) (mathx.Vector[float64], error) {
	return x.ScaledAdd(1, x)
}

func TestSteepestDescentConvergesOnSphere(t *testing.T) {
	solver := solvers.NewSteepestDescent[sphereProblem, mathx.Vector[float64]](1e-6)
	initial := state.New[mathx.Vector[float64], mathx.Vector[float64], struct{}, struct{}, struct{}, float64]().
		SetParam(mathx.Vector[float64]{3, 4}).
		SetMaxIters(200)

	e := executor.New[sphereProblem, *state.IterState[mathx.Vector[float64], mathx.Vector[float64], struct{}, struct{}, struct{}, float64], *solvers.SteepestDescent[sphereProblem, mathx.Vector[float64], float64]](
		sphereProblem{}, solver, initial, false)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	reason, ok := result.State().TerminationStatus().Reason()
	require.True(t, ok)
	assert.Equal(t, "SolverConverged", reason.Kind())
	assert.Less(t, result.State().BestCostF64(), 1e-6)
}

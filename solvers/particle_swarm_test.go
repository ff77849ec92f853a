package solvers_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/executor"
	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/solvers"
	"github.com/go-argmin/argmin/state"
)

func seedSwarm(n int, rng *rand.Rand) []state.Particle[mathx.Vector[float64], float64] {
	pop := make([]state.Particle[mathx.Vector[float64], float64], n)
	for i := range pop {
		pop[i] = state.Particle[mathx.Vector[float64], float64]{
			Position: mathx.RandomVector[float64](rng, 2, -5, 5),
			Velocity: mathx.NewVector[float64](2),
		}
	}
	return pop
}

func TestParticleSwarmConvergesOnSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	solver := solvers.NewParticleSwarm[sphereProblem, mathx.Vector[float64]](rng, 0.729, 1.49445, 1.49445)

	initial := state.NewPopulation[mathx.Vector[float64], float64]().
		SetPopulation(seedSwarm(20, rng)).
		SetMaxIters(300)

	e := executor.New[sphereProblem, *state.PopulationState[mathx.Vector[float64], float64], *solvers.ParticleSwarm[sphereProblem, mathx.Vector[float64], float64]](
		sphereProblem{}, solver, initial, false)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	reason, ok := result.State().TerminationStatus().Reason()
	require.True(t, ok)
	assert.Equal(t, "MaxItersReached", reason.Kind())
	assert.Less(t, result.State().BestCostF64(), 1.0, "swarm should approach the sphere's minimum at the origin")
}

func TestParticleSwarmIsReproducibleUnderSeededRNG(t *testing.T) {
	run := func() float64 {
		rng := rand.New(rand.NewSource(7))
		solver := solvers.NewParticleSwarm[sphereProblem, mathx.Vector[float64]](rng, 0.729, 1.49445, 1.49445)
		initial := state.NewPopulation[mathx.Vector[float64], float64]().
			SetPopulation(seedSwarm(10, rng)).
			SetMaxIters(50)
		e := executor.New[sphereProblem, *state.PopulationState[mathx.Vector[float64], float64], *solvers.ParticleSwarm[sphereProblem, mathx.Vector[float64], float64]](
			sphereProblem{}, solver, initial, false)
		result, err := e.Run(context.Background())
		require.NoError(t, err)
		return result.State().BestCostF64()
	}

	assert.Equal(t, run(), run(), "identical seeds must reproduce identical outcomes")
}

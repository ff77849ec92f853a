package executor_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/checkpoint"
	"github.com/go-argmin/argmin/executor"
	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/observer"
	"github.com/go-argmin/argmin/problem"
	"github.com/go-argmin/argmin/solvers"
	"github.com/go-argmin/argmin/state"
)

// rosenbrockProblem is the classic banana-valley test function used by
// S1-S3 below, with a=1, b=100.
type rosenbrockProblem struct{}

func (rosenbrockProblem) Cost(x mathx.Vector[float64]) (float64, error) {
	t1 := 1 - x[0]
	t2 := x[1] - x[0]*x[0]
	return t1*t1 + 100*t2*t2, nil
}

func (rosenbrockProblem) Gradient(x mathx.Vector[float64]) (mathx.Vector[float64], error) {
	t2 := x[1] - x[0]*x[0]
	dx0 := -2*(1-x[0]) - 400*x[0]*t2
	dx1 := 200 * t2
	return mathx.Vector[float64]{dx0, dx1}, nil
}

type rosenbrockDescentState = *state.IterState[mathx.Vector[float64], mathx.Vector[float64], struct{}, struct{}, struct{}, float64]

func TestS1SteepestDescentOnRosenbrockReachesMaxIters(t *testing.T) {
	start := mathx.Vector[float64]{-1.2, 1.0}
	initialCost, err := rosenbrockProblem{}.Cost(start)
	require.NoError(t, err)

	initial := state.New[mathx.Vector[float64], mathx.Vector[float64], struct{}, struct{}, struct{}, float64]().
		SetParam(start).
		SetMaxIters(10).
		SetTargetCost(0.0)

	solver := solvers.NewSteepestDescent[rosenbrockProblem, mathx.Vector[float64]](1e-12)
	e := executor.New[rosenbrockProblem, rosenbrockDescentState, *solvers.SteepestDescent[rosenbrockProblem, mathx.Vector[float64], float64]](
		rosenbrockProblem{}, solver, initial, false)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	reason, ok := result.State().TerminationStatus().Reason()
	require.True(t, ok)
	assert.Equal(t, "MaxItersReached", reason.Kind())
	assert.Less(t, result.State().BestCostF64(), initialCost)
	assert.Greater(t, result.State().Counts()["gradient"], uint64(0))
	assert.Greater(t, result.State().Counts()["cost"], uint64(10))
}

func TestS2SteepestDescentOnRosenbrockReachesTargetCost(t *testing.T) {
	initial := state.New[mathx.Vector[float64], mathx.Vector[float64], struct{}, struct{}, struct{}, float64]().
		SetParam(mathx.Vector[float64]{-1.2, 1.0}).
		SetMaxIters(10000).
		SetTargetCost(1e-8)

	solver := solvers.NewSteepestDescent[rosenbrockProblem, mathx.Vector[float64]](1e-12)
	e := executor.New[rosenbrockProblem, rosenbrockDescentState, *solvers.SteepestDescent[rosenbrockProblem, mathx.Vector[float64], float64]](
		rosenbrockProblem{}, solver, initial, false)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	reason, ok := result.State().TerminationStatus().Reason()
	require.True(t, ok)
	assert.Equal(t, "TargetCostReached", reason.Kind())
	assert.Less(t, result.State().Iter(), uint64(10000))
	assert.LessOrEqual(t, result.State().BestCostF64(), 1e-8)
}

func TestS3ParticleSwarmReproducibleOnRosenbrock(t *testing.T) {
	run := func() (mathx.Vector[float64], float64, map[string]uint64) {
		rng := rand.New(rand.NewSource(2024))
		solver := solvers.NewParticleSwarm[rosenbrockProblem, mathx.Vector[float64]](rng, 0.729, 1.49445, 1.49445)

		pop := make([]state.Particle[mathx.Vector[float64], float64], 30)
		for i := range pop {
			pop[i] = state.Particle[mathx.Vector[float64], float64]{
				Position: mathx.RandomVector[float64](rng, 2, -2, 2),
				Velocity: mathx.NewVector[float64](2),
			}
		}
		initial := state.NewPopulation[mathx.Vector[float64], float64]().SetPopulation(pop).SetMaxIters(50)

		e := executor.New[rosenbrockProblem, *state.PopulationState[mathx.Vector[float64], float64], *solvers.ParticleSwarm[rosenbrockProblem, mathx.Vector[float64], float64]](
			rosenbrockProblem{}, solver, initial, false)

		result, err := e.Run(context.Background())
		require.NoError(t, err)

		param, _ := result.State().BestParam()
		return param, result.State().BestCostF64(), result.State().Counts()
	}

	param1, cost1, counts1 := run()
	param2, cost2, counts2 := run()

	assert.Equal(t, param1, param2, "identical seeds must reproduce identical best_param")
	assert.Equal(t, cost1, cost2, "identical seeds must reproduce identical best_cost")
	assert.Equal(t, counts1, counts2, "identical seeds must reproduce identical counters")
}

// quadProblem and halvingSolver back S4 and S6: a trivial, deterministic
// single-variable problem whose solver halves the parameter each
// iteration, cheap enough to make checkpoint/observer bookkeeping the
// only thing under test.
type quadProblem struct{}

func (quadProblem) Cost(param float64) (float64, error) { return param * param, nil }

type iterStateF64 = *state.IterState[float64, float64, float64, float64, float64, float64]

type halvingSolver[Prob any] struct{}

func (halvingSolver[Prob]) Name() string { return "halving" }

func (halvingSolver[Prob]) Init(w *problem.Wrapper[Prob], st iterStateF64) (iterStateF64, *kv.KV, error) {
	param, _ := st.Param()
	cost, err := problem.Cost[Prob, float64, float64](w, param)
	if err != nil {
		return st, nil, err
	}
	st.Update(param, cost)
	return st, nil, nil
}

func (halvingSolver[Prob]) NextIter(w *problem.Wrapper[Prob], st iterStateF64) (iterStateF64, *kv.KV, error) {
	param, _ := st.Param()
	next := param * 0.5
	cost, err := problem.Cost[Prob, float64, float64](w, next)
	if err != nil {
		return st, nil, err
	}
	st.Update(next, cost)
	return st, nil, nil
}

func (halvingSolver[Prob]) Terminate(st iterStateF64) state.TerminationStatus {
	return state.NotTerminated()
}

// memCheckpoint is an in-memory Checkpoint double: a struct-value copy
// of an IterState snapshot is enough since every field it holds is
// either a value or a pointer to a value nothing ever mutates in place.
type memCheckpoint struct {
	saved  bool
	solver halvingSolver[quadProblem]
	state  state.IterState[float64, float64, float64, float64, float64, float64]
}

func (c *memCheckpoint) Save(solver halvingSolver[quadProblem], st iterStateF64) error {
	c.solver = solver
	c.state = *st
	c.saved = true
	return nil
}

func (c *memCheckpoint) Load() (halvingSolver[quadProblem], iterStateF64, bool, error) {
	if !c.saved {
		return halvingSolver[quadProblem]{}, nil, false, nil
	}
	snapshot := c.state
	return c.solver, &snapshot, true, nil
}

type cancelAtIter struct {
	n      uint64
	cancel context.CancelFunc
}

func (c cancelAtIter) ObserveInit(name string, st observer.StateView, snapshot *kv.KV) error {
	return nil
}

func (c cancelAtIter) ObserveIter(st observer.StateView, snapshot *kv.KV) error {
	if st.Iter() == c.n {
		c.cancel()
	}
	return nil
}

func TestS4CheckpointResumeMatchesUninterruptedRun(t *testing.T) {
	cp := &memCheckpoint{}

	ctx, cancel := context.WithCancel(context.Background())
	initial := state.New[float64, float64, float64, float64, float64, float64]().SetParam(100.0).SetMaxIters(10000)
	first := executor.New[quadProblem, iterStateF64, halvingSolver[quadProblem]](
		quadProblem{}, halvingSolver[quadProblem]{}, initial, false)
	first.Checkpointing(cp, checkpoint.Every(10))
	first.AddObserver(cancelAtIter{n: 30, cancel: cancel}, observer.Always())

	_, err := first.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "the simulated kill must surface as context cancellation")
	require.True(t, cp.saved, "a checkpoint must have been saved before the kill landed")
	assert.Equal(t, uint64(30), cp.state.Iter())

	solver, loaded, found, err := cp.Load()
	require.NoError(t, err)
	require.True(t, found)
	loaded.SetMaxIters(60)

	resumed := executor.New[quadProblem, iterStateF64, halvingSolver[quadProblem]](
		quadProblem{}, solver, loaded, false)
	resumedResult, err := resumed.Run(context.Background())
	require.NoError(t, err)

	uninterrupted := state.New[float64, float64, float64, float64, float64, float64]().SetParam(100.0).SetMaxIters(60)
	baseline := executor.New[quadProblem, iterStateF64, halvingSolver[quadProblem]](
		quadProblem{}, halvingSolver[quadProblem]{}, uninterrupted, false)
	baselineResult, err := baseline.Run(context.Background())
	require.NoError(t, err)

	resumedParam, _ := resumedResult.State().Param()
	baselineParam, _ := baselineResult.State().Param()
	assert.Equal(t, baselineParam, resumedParam)
	assert.Equal(t, baselineResult.State().BestCostF64(), resumedResult.State().BestCostF64())
	assert.Equal(t, baselineResult.State().Iter(), resumedResult.State().Iter())

	resumedReason, _ := resumedResult.State().TerminationStatus().Reason()
	baselineReason, _ := baselineResult.State().TerminationStatus().Reason()
	assert.Equal(t, baselineReason.Kind(), resumedReason.Kind())
}

type slowProblem struct{}

func (slowProblem) Cost(param float64) (float64, error) {
	time.Sleep(15 * time.Millisecond)
	return param * param, nil
}

func TestS5TimeoutWithSlowCostFunction(t *testing.T) {
	initial := state.New[float64, float64, float64, float64, float64, float64]().SetParam(100.0).SetMaxIters(100000)
	e := executor.New[slowProblem, iterStateF64, halvingSolver[slowProblem]](
		slowProblem{}, halvingSolver[slowProblem]{}, initial, false)
	e.Timeout(100 * time.Millisecond)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	reason, ok := result.State().TerminationStatus().Reason()
	require.True(t, ok)
	assert.Equal(t, "Timeout", reason.Kind())
	assert.NotZero(t, result.State().Iter(), "at least one iteration should complete before a 100ms timeout with a 15ms cost function")
	assert.False(t, math.IsNaN(result.State().BestCostF64()), "best cost must be a settled value from the last completed iteration")
}

type countingObserver struct {
	calls int
}

func (c *countingObserver) ObserveInit(name string, st observer.StateView, snapshot *kv.KV) error {
	c.calls++
	return nil
}

func (c *countingObserver) ObserveIter(st observer.StateView, snapshot *kv.KV) error {
	c.calls++
	return nil
}

func TestS6EveryFiveObserverOverThirtySevenIterations(t *testing.T) {
	initial := state.New[float64, float64, float64, float64, float64, float64]().SetParam(100.0).SetMaxIters(37)
	obs := &countingObserver{}

	e := executor.New[quadProblem, iterStateF64, halvingSolver[quadProblem]](
		quadProblem{}, halvingSolver[quadProblem]{}, initial, false)
	e.AddObserver(obs, observer.Every(5))

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, obs.calls, "one init call plus floor(37/5)=7 matching iterations")
}

// Package executor assembles a Problem wrapper, a Solver, a State, an
// observer Registry, and an optional Checkpoint into one driven run.
// This is the engine's core loop, grounded on the teacher's
// GRPCServer.waitForShutdown signal-handling shape and its Start/Stop
// lifecycle, generalized from a network listener to an iterative solve.
package executor

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-argmin/argmin/argerr"
	"github.com/go-argmin/argmin/checkpoint"
	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/observer"
	"github.com/go-argmin/argmin/problem"
	"github.com/go-argmin/argmin/state"
)

// Solver is parameterized by the problem it drives and the concrete
// State shape it reads and writes. NextIter owns the full per-iteration
// update: it computes the next candidate, applies it to st via st's own
// Update method, and returns the resulting state. The Executor's loop
// only owns bookkeeping (iter count, counters, elapsed time, termination
// checks) that is common across every concrete State shape.
type Solver[Prob, St any] interface {
	// Name identifies the solver for observer init snapshots.
	Name() string
	// Init runs once before the loop: seeding initial cost/gradient,
	// validating the configured state, or similar one-time setup.
	Init(w *problem.Wrapper[Prob], st St) (St, *kv.KV, error)
	// NextIter performs exactly one algorithmic step and applies it to
	// st (via st.Update or the population equivalent) before returning.
	NextIter(w *problem.Wrapper[Prob], st St) (St, *kv.KV, error)
	// Terminate reports a solver-specific convergence criterion; solvers
	// with none should always return state.NotTerminated().
	Terminate(st St) state.TerminationStatus
}

// OptimizationResult is the Executor's return value: the problem, the
// solver, and the final state, all owned by the caller from this point.
type OptimizationResult[Prob any, Slv Solver[Prob, St], St state.State] struct {
	problem Prob
	solver  Slv
	state   St
}

func (r OptimizationResult[Prob, Slv, St]) Problem() Prob { return r.problem }
func (r OptimizationResult[Prob, Slv, St]) Solver() Slv   { return r.solver }
func (r OptimizationResult[Prob, Slv, St]) State() St     { return r.state }

// Summary renders a human-readable one-paragraph report: termination
// reason, iteration count, best cost, elapsed time, and counter values.
func (r OptimizationResult[Prob, Slv, St]) Summary() string {
	st := r.state
	reasonStr := "NotTerminated"
	if reason, ok := st.TerminationStatus().Reason(); ok {
		reasonStr = reason.String()
	}

	out := fmt.Sprintf("run %s: %s, iters=%d, best_cost=%g, elapsed=%s",
		r.solver.Name(), reasonStr, st.Iter(), st.BestCostF64(), st.Time())

	counts := st.Counts()
	if len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, name := range []string{"operator", "cost", "gradient", "jacobian", "hessian", "anneal"} {
			if v, ok := counts[name]; ok {
				parts = append(parts, fmt.Sprintf("%s:%d", name, v))
			}
		}
		out += ", counts={" + strings.Join(parts, ", ") + "}"
	}
	return out
}

// Executor drives the main loop described in the engine contract: build
// with New, configure with Configure/Timeout/AddObserver/Checkpointing,
// then Run.
type Executor[Prob any, St state.State, Slv Solver[Prob, St]] struct {
	wrapper    *problem.Wrapper[Prob]
	solver     Slv
	state      St
	observers  *observer.Registry
	cp         checkpoint.Checkpoint[Slv, St]
	cpMode     checkpoint.Mode
	timeout    time.Duration
	interrupt  atomic.Bool
}

// New builds an Executor with zeroed counters and the given initial
// state, matching the contract's Executor::new(problem, solver).
func New[Prob any, St state.State, Slv Solver[Prob, St]](p Prob, solver Slv, initial St, parallel bool) *Executor[Prob, St, Slv] {
	return &Executor[Prob, St, Slv]{
		wrapper:   problem.NewWrapper(p, parallel),
		solver:    solver,
		state:     initial,
		observers: observer.NewRegistry(),
	}
}

// Configure passes the current state through fn, the sole mechanism for
// setting param, max_iters, target_cost, and seed gradients/Hessians.
func (e *Executor[Prob, St, Slv]) Configure(fn func(St) St) *Executor[Prob, St, Slv] {
	e.state = fn(e.state)
	return e
}

// Timeout sets a wall-clock cap checked after every iteration.
func (e *Executor[Prob, St, Slv]) Timeout(d time.Duration) *Executor[Prob, St, Slv] {
	e.timeout = d
	return e
}

// AddObserver appends an observer under mode, in call order.
func (e *Executor[Prob, St, Slv]) AddObserver(o observer.Observer, mode observer.Mode) *Executor[Prob, St, Slv] {
	e.observers.Add(o, mode)
	return e
}

// Checkpointing installs cp at the given save cadence.
func (e *Executor[Prob, St, Slv]) Checkpointing(cp checkpoint.Checkpoint[Slv, St], mode checkpoint.Mode) *Executor[Prob, St, Slv] {
	e.cp = cp
	e.cpMode = mode
	return e
}

func hasFiniteBest(st state.State) bool {
	v := st.BestCostF64()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Run drives the loop to completion: install an interrupt handler,
// optionally resume from a checkpoint, run solver.Init, then iterate
// until a termination reason latches.
func (e *Executor[Prob, St, Slv]) Run(ctx context.Context) (OptimizationResult[Prob, Slv, St], error) {
	var zero OptimizationResult[Prob, Slv, St]

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			e.interrupt.Store(true)
		case <-done:
		}
	}()

	st := e.state
	if e.cp != nil {
		loaded, loadedState, found, err := e.cp.Load()
		if err != nil {
			return zero, err
		}
		if found {
			e.solver = loaded
			st = loadedState
		}
	}

	start := time.Now()

	st, initKV, err := e.solver.Init(e.wrapper, st)
	if err != nil {
		if argerr.HasBest(err, hasFiniteBest(st)) {
			st.TerminateWith(state.SolverExit(err.Error()))
		} else {
			return zero, err
		}
	}
	st.SetCounts(e.wrapper.Counts())
	st.SetTime(time.Since(start))
	if err := e.observers.Init(e.solver.Name(), st, initKV); err != nil {
		return zero, err
	}

	for !st.TerminationStatus().Terminated() {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		newSt, iterKV, err := e.solver.NextIter(e.wrapper, st)
		if err != nil {
			if argerr.HasBest(err, hasFiniteBest(st)) {
				st.TerminateWith(state.SolverExit(err.Error()))
				if err := e.observers.Iter(st, iterKV); err != nil {
					return zero, err
				}
				break
			}
			return zero, err
		}
		st = newSt

		st.IncrementIter()
		st.SetCounts(e.wrapper.Counts())
		elapsed := time.Since(start)
		st.SetTime(elapsed)

		if reason, done := e.checkTermination(st, elapsed); done {
			st.TerminateWith(reason)
		}

		if e.cp != nil && e.cpMode.Due(st.Iter()) {
			if err := e.cp.Save(e.solver, st); err != nil {
				return zero, err
			}
		}

		if err := e.observers.Iter(st, iterKV); err != nil {
			return zero, err
		}
	}

	return OptimizationResult[Prob, Slv, St]{
		problem: e.wrapper.Problem(),
		solver:  e.solver,
		state:   st,
	}, nil
}

// checkTermination applies the engine's fixed priority order: Interrupt
// > Timeout > MaxIters > TargetCost > Solver-specific.
func (e *Executor[Prob, St, Slv]) checkTermination(st St, elapsed time.Duration) (state.TerminationReason, bool) {
	if e.interrupt.Load() {
		return state.Interrupt(), true
	}
	if e.timeout > 0 && elapsed >= e.timeout {
		return state.Timeout(), true
	}
	if st.Iter() >= st.MaxIters() {
		return state.MaxItersReached(), true
	}
	if st.BestCostF64() <= st.TargetCostF64() {
		return state.TargetCostReached(), true
	}
	if reason, ok := e.solver.Terminate(st).Reason(); ok {
		return reason, true
	}
	return state.TerminationReason{}, false
}

// Package state defines the State contract (§4.4) and its two concrete
// shapes: IterState for single-point iterative solvers (descent methods,
// line searches, Gauss-Newton/CG variants) and PopulationState for
// population-based heuristics (particle swarm, genetic algorithms). The
// Executor is generic over the concrete State type rather than over a
// union of mostly-unused fields, per the engine's state-variants design
// note.
package state

import "time"

// State is the minimal surface the Executor needs from any concrete
// state shape. IterState and PopulationState both implement it; each
// additionally exposes its own typed getters that solvers use directly.
type State interface {
	// IncrementIter advances iter by one.
	IncrementIter()
	// Iter returns the current iteration count.
	Iter() uint64
	// MaxIters returns the configured iteration budget.
	MaxIters() uint64
	// SetTime stamps the elapsed wall-clock duration.
	SetTime(d time.Duration)
	// Time returns the last stamped elapsed duration.
	Time() time.Duration
	// TerminationStatus returns the latched status.
	TerminationStatus() TerminationStatus
	// TerminateWith latches reason, a no-op if already terminated.
	TerminateWith(reason TerminationReason)
	// IsBest reports whether the most recent Update call set a new best.
	IsBest() bool
	// SetCounts copies a Problem wrapper's counter snapshot in.
	SetCounts(counts map[string]uint64)
	// Counts returns the last-copied counter snapshot.
	Counts() map[string]uint64
	// BestCostF64 returns the best cost seen so far as a float64, for
	// the engine's backend-agnostic target-cost termination check.
	BestCostF64() float64
	// TargetCostF64 returns the configured target cost as a float64.
	TargetCostF64() float64
}

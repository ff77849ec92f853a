package state

import (
	"math"
	"time"

	"github.com/go-argmin/argmin/mathx"
)

// Particle is one member of a population-based solver's swarm: its
// current position and cost, its own best-seen position and cost, and
// (for velocity-driven heuristics like particle swarm) its velocity.
type Particle[P any, F mathx.Float] struct {
	Position     P
	Cost         F
	BestPosition P
	BestCost     F
	Velocity     P
}

// PopulationState holds the bookkeeping for a population-based solver:
// the whole swarm plus the engine-tracked global best, mirroring
// IterState's best-tracking rule at the population level.
type PopulationState[P any, F mathx.Float] struct {
	population []Particle[P, F]

	bestParam     *P
	prevBestParam *P
	bestCost      F
	prevBestCost  F
	targetCost    F

	iter         uint64
	lastBestIter uint64
	maxIters     uint64

	counts map[string]uint64
	time   time.Duration

	termination TerminationStatus
	isBest      bool
}

// NewPopulation returns a fresh PopulationState with the same
// +Inf/-Inf/unbounded defaults as New.
func NewPopulation[P any, F mathx.Float]() *PopulationState[P, F] {
	inf := F(math.Inf(1))
	return &PopulationState[P, F]{
		bestCost:     inf,
		prevBestCost: inf,
		targetCost:   F(math.Inf(-1)),
		maxIters:     math.MaxUint64,
		termination:  NotTerminated(),
	}
}

func (s *PopulationState[P, F]) SetMaxIters(n uint64) *PopulationState[P, F] {
	s.maxIters = n
	return s
}

func (s *PopulationState[P, F]) SetTargetCost(c F) *PopulationState[P, F] {
	s.targetCost = c
	return s
}

// SetPopulation installs the initial swarm and seeds the global best
// from whichever particle currently reports the lowest cost, applying
// the same first-finite-wins rule Update uses per iteration. Any best
// seeded by an earlier SetPopulation call is discarded first.
func (s *PopulationState[P, F]) SetPopulation(pop []Particle[P, F]) *PopulationState[P, F] {
	s.population = pop
	s.bestParam = nil
	s.bestCost = F(math.Inf(1))
	for i := range pop {
		s.considerBest(pop[i].Position, pop[i].Cost)
	}
	return s
}

func (s *PopulationState[P, F]) Population() []Particle[P, F] { return s.population }

// Update replaces the swarm after one iteration's move/evaluate step and
// re-derives the global best across the new positions.
func (s *PopulationState[P, F]) Update(pop []Particle[P, F]) {
	s.population = pop
	s.isBest = false
	for i := range pop {
		s.considerBest(pop[i].Position, pop[i].Cost)
	}
}

func (s *PopulationState[P, F]) considerBest(param P, cost F) {
	replace := cost < s.bestCost || (isNonFinite(cost) && isNonFinite(s.bestCost))
	if replace {
		s.isBest = true
		s.prevBestParam = s.bestParam
		s.bestParam = &param
		s.prevBestCost = s.bestCost
		s.bestCost = cost
		s.lastBestIter = s.iter
	}
}

func (s *PopulationState[P, F]) IncrementIter()  { s.iter++ }
func (s *PopulationState[P, F]) Iter() uint64    { return s.iter }
func (s *PopulationState[P, F]) MaxIters() uint64 { return s.maxIters }
func (s *PopulationState[P, F]) LastBestIter() uint64 { return s.lastBestIter }

func (s *PopulationState[P, F]) SetTime(d time.Duration) { s.time = d }
func (s *PopulationState[P, F]) Time() time.Duration     { return s.time }

func (s *PopulationState[P, F]) TerminationStatus() TerminationStatus { return s.termination }
func (s *PopulationState[P, F]) TerminateWith(reason TerminationReason) {
	s.termination.Latch(reason)
}

func (s *PopulationState[P, F]) IsBest() bool { return s.isBest }

func (s *PopulationState[P, F]) SetCounts(c map[string]uint64) { s.counts = c }
func (s *PopulationState[P, F]) Counts() map[string]uint64     { return s.counts }

func (s *PopulationState[P, F]) BestCostF64() float64   { return float64(s.bestCost) }
func (s *PopulationState[P, F]) TargetCostF64() float64 { return float64(s.targetCost) }

func (s *PopulationState[P, F]) BestParam() (P, bool) {
	if s.bestParam == nil {
		var zero P
		return zero, false
	}
	return *s.bestParam, true
}

func (s *PopulationState[P, F]) PrevBestParam() (P, bool) {
	if s.prevBestParam == nil {
		var zero P
		return zero, false
	}
	return *s.prevBestParam, true
}

func (s *PopulationState[P, F]) BestCost() F     { return s.bestCost }
func (s *PopulationState[P, F]) PrevBestCost() F { return s.prevBestCost }
func (s *PopulationState[P, F]) TargetCost() F   { return s.targetCost }

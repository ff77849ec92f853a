package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ State = (*IterState[float64, float64, float64, float64, float64, float64])(nil)
	_ State = (*PopulationState[float64, float64])(nil)
)

func TestIterStateDefaults(t *testing.T) {
	s := New[float64, float64, float64, float64, float64, float64]()
	assert.True(t, math.IsInf(s.BestCostF64(), 1))
	assert.True(t, math.IsInf(s.TargetCostF64(), -1))
	assert.Equal(t, uint64(math.MaxUint64), s.MaxIters())
	assert.False(t, s.TerminationStatus().Terminated())
	_, ok := s.Param()
	assert.False(t, ok)
}

func TestIterStateUpdateBestTracking(t *testing.T) {
	s := New[float64, float64, float64, float64, float64, float64]()
	s.SetParam(0)

	s.Update(1.0, 5.0)
	assert.True(t, s.IsBest(), "first finite cost must become best")
	best, ok := s.BestParam()
	require.True(t, ok)
	assert.Equal(t, 1.0, best)
	assert.Equal(t, uint64(0), s.LastBestIter())

	s.IncrementIter()
	s.Update(2.0, 7.0)
	assert.False(t, s.IsBest(), "a worse cost must not replace the best")
	best, _ = s.BestParam()
	assert.Equal(t, 1.0, best)

	s.IncrementIter()
	s.Update(3.0, 2.0)
	assert.True(t, s.IsBest())
	best, _ = s.BestParam()
	assert.Equal(t, 3.0, best)
	assert.Equal(t, uint64(2), s.LastBestIter())

	prev, ok := s.PrevParam()
	require.True(t, ok)
	assert.Equal(t, 2.0, prev)
}

func TestIterStateNonFiniteLastWriteWins(t *testing.T) {
	s := New[float64, float64, float64, float64, float64, float64]()
	s.Update(1.0, math.NaN())
	assert.True(t, s.IsBest(), "first non-finite cost must win when no finite cost has been seen")

	s.IncrementIter()
	s.Update(2.0, math.Inf(1))
	assert.True(t, s.IsBest(), "both non-finite still latches last write")
	best, _ := s.BestParam()
	assert.Equal(t, 2.0, best)
}

func TestIterStateTerminationLatchesOnce(t *testing.T) {
	s := New[float64, float64, float64, float64, float64, float64]()
	s.TerminateWith(MaxItersReached())
	s.TerminateWith(TargetCostReached())

	reason, ok := s.TerminationStatus().Reason()
	require.True(t, ok)
	assert.Equal(t, "MaxItersReached", reason.Kind())
}

func TestPopulationStateDerivesGlobalBest(t *testing.T) {
	s := NewPopulation[float64, float64]()
	s.SetPopulation([]Particle[float64, float64]{
		{Position: 1, Cost: 9},
		{Position: 2, Cost: 3},
		{Position: 3, Cost: 7},
	})

	best, ok := s.BestParam()
	require.True(t, ok)
	assert.Equal(t, 2.0, best)
	assert.Equal(t, 3.0, s.BestCost())

	s.IncrementIter()
	s.Update([]Particle[float64, float64]{
		{Position: 1, Cost: 9},
		{Position: 2, Cost: 3},
		{Position: 3, Cost: 1},
	})
	assert.True(t, s.IsBest())
	best, _ = s.BestParam()
	assert.Equal(t, 3.0, best)
}

package problem_test

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/problem"
)

// skewedProblem sleeps longer for smaller inputs than larger ones, so a
// dispatcher that wrote results by completion order rather than input
// index would scramble them: index 0 is the slowest goroutine and
// finishes last, yet must still land at output[0].
type skewedProblem struct {
	n int
}

func (p skewedProblem) sleep(i int) {
	time.Sleep(time.Duration(p.n-i) * time.Millisecond)
}

func (p skewedProblem) Cost(i int) (int, error)            { p.sleep(i); return i * i, nil }
func (p skewedProblem) Gradient(i int) (int, error)        { p.sleep(i); return 2 * i, nil }
func (p skewedProblem) Jacobian(i int) (int, error)         { p.sleep(i); return i + 1, nil }
func (p skewedProblem) Hessian(i int) (int, error)          { p.sleep(i); return i + 2, nil }
func (p skewedProblem) Apply(i int) (int, error)            { p.sleep(i); return i * 3, nil }
func (p skewedProblem) Anneal(i int, temp int) (int, error) { p.sleep(i); return i + temp, nil }

const skewedN = 16

func newSkewedWrapper() *problem.Wrapper[skewedProblem] {
	return problem.NewWrapper(skewedProblem{n: skewedN}, true)
}

func sequentialInputs() []int {
	in := make([]int, skewedN)
	for i := range in {
		in[i] = i
	}
	return in
}

func TestBulkCostPreservesInputOrderUnderParallelDispatch(t *testing.T) {
	w := newSkewedWrapper()
	out, err := problem.BulkCost[skewedProblem, int, int](context.Background(), w, sequentialInputs())
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v, "result at index %d must match the input at that index, not completion order", i)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["cost"])
}

func TestBulkGradientPreservesInputOrderUnderParallelDispatch(t *testing.T) {
	w := newSkewedWrapper()
	out, err := problem.BulkGradient[skewedProblem, int, int](context.Background(), w, sequentialInputs())
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, 2*i, v)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["gradient"])
}

func TestBulkJacobianPreservesInputOrderUnderParallelDispatch(t *testing.T) {
	w := newSkewedWrapper()
	out, err := problem.BulkJacobian[skewedProblem, int, int](context.Background(), w, sequentialInputs())
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i+1, v)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["jacobian"])
}

func TestBulkHessianPreservesInputOrderUnderParallelDispatch(t *testing.T) {
	w := newSkewedWrapper()
	out, err := problem.BulkHessian[skewedProblem, int, int](context.Background(), w, sequentialInputs())
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i+2, v)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["hessian"])
}

func TestBulkApplyOpPreservesInputOrderUnderParallelDispatch(t *testing.T) {
	w := newSkewedWrapper()
	out, err := problem.BulkApplyOp[skewedProblem, int, int](context.Background(), w, sequentialInputs())
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*3, v)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["operator"])
}

func TestBulkAnnealAtPreservesInputOrderUnderParallelDispatch(t *testing.T) {
	w := newSkewedWrapper()
	out, err := problem.BulkAnnealAt[skewedProblem, int, int](context.Background(), w, sequentialInputs(), 100)
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i+100, v)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["anneal"])
}

// TestBulkDispatchSequentialWhenWrapperNotParallel asserts the same
// ordering guarantee holds in the fallback sequential path, so the
// contract doesn't depend on which path ran.
func TestBulkDispatchSequentialWhenWrapperNotParallel(t *testing.T) {
	w := problem.NewWrapper(skewedProblem{n: skewedN}, false)
	out, err := problem.BulkCost[skewedProblem, int, int](context.Background(), w, sequentialInputs())
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
	assert.Equal(t, uint64(skewedN), w.Counts()["cost"])
}

// trackingProblem records the peak number of concurrently in-flight
// Gradient calls, so the test can assert the pool semaphore actually
// bounds concurrency rather than just letting everything race.
type trackingProblem struct {
	active *int32
	peak   *int32
}

func (p trackingProblem) Gradient(i int) (int, error) {
	n := atomic.AddInt32(p.active, 1)
	for {
		peak := atomic.LoadInt32(p.peak)
		if n <= peak || atomic.CompareAndSwapInt32(p.peak, peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(p.active, -1)
	return i, nil
}

func TestBulkGradientBoundsConcurrencyToNumCPU(t *testing.T) {
	var active, peak int32
	w := problem.NewWrapper(trackingProblem{active: &active, peak: &peak}, true)

	inputs := make([]int, 4*runtime.NumCPU())
	_, err := problem.BulkGradient[trackingProblem, int, int](context.Background(), w, inputs)
	require.NoError(t, err)

	assert.LessOrEqual(t, int(atomic.LoadInt32(&peak)), runtime.NumCPU(),
		"the pool semaphore must cap concurrent bulk evaluations at runtime.NumCPU()")
	assert.Equal(t, uint64(len(inputs)), w.Counts()["gradient"])
}

package mathx

import "math/rand"

// Rand is the minimal surface the engine needs from a random source.
// *math/rand.Rand satisfies it directly, so callers construct one with
// rand.New(rand.NewSource(seed)) to get bitwise-reproducible runs, per
// the RNG-ownership rule: stochastic solvers own their RNG and accept a
// caller-supplied one at construction.
type Rand interface {
	Float64() float64
}

// compile-time assertion that *rand.Rand satisfies Rand.
var _ Rand = (*rand.Rand)(nil)

package synth

import (
	"math/rand/v2"
	"time"
)

// Rand is the single source of randomness for a synthesis run. Everything
// that jitters, detunes or seeds noise draws from it, so a fixed seed
// replays a run exactly.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG-backed Rand. A zero seed is replaced by the wall clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec // not security sensitive
}

// Uniform draws from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

package particle

import (
	"math"
	"math/rand/v2"
)

// Rand is a seedable random source shared by the effect renderers.
type Rand struct {
	r *rand.Rand
}

// NewRand returns a source seeded with seed. Equal seeds produce equal
// sequences.
func NewRand(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns an int in [lo, hi). It returns lo when the range is empty.
func (r *Rand) Intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo)
}

// Uniform returns a float64 in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Float64()*(hi-lo)
}

// Pick returns an index in [0, n), or 0 when n < 1.
func (r *Rand) Pick(n int) int {
	if n < 1 {
		return 0
	}
	return r.r.IntN(n)
}

// Angle returns a direction in [0, 2π).
func (r *Rand) Angle() float64 {
	return r.r.Float64() * 2 * math.Pi
}

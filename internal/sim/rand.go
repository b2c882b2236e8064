package sim

import "math/rand"

// Rand is the source of randomness for spawning. Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. Equal seeds give equal runs.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

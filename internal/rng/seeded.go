package rng

import "math/rand"

// Seeded is a deterministic generator for reproducible shuffles.
// Tests and the tableSeed config knob use this; production tables use Crypto.
type Seeded struct {
	r *rand.Rand
}

// NewSeeded returns a generator seeded with the provided value
func NewSeeded(seed int64) *Seeded {
	return &Seeded{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a random number from 0 < n
func (s *Seeded) Intn(n int) int {
	return s.r.Intn(n)
}

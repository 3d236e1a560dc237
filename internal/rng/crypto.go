package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

// Crypto draws from the operating system's entropy pool. It is the generator
// behind production shuffles.
type Crypto struct{}

// Intn returns a uniform value in [0, n). Values past the largest multiple
// of n are rejected rather than folded in, to keep the deal unbiased.
func (Crypto) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: Intn called with n = %d", n))
	}

	limit := math.MaxUint64 - math.MaxUint64%uint64(n)

	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}

		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return int(v % uint64(n))
		}
	}
}

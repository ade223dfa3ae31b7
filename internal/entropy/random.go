// Package entropy supplies the random sources the simulation draws from.
// Every stochastic system takes a Source so tests can inject a seeded or
// scripted generator; production seeds come from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is the subset of *math/rand.Rand the simulation needs.
type Source interface {
	Float64() float64 // uniform in [0, 1)
	Intn(n int) int   // uniform in [0, n)
}

// NewSeeded returns a deterministic source. A zero seed is replaced by a
// crypto-random one.
func NewSeeded(seed int64) *mrand.Rand {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return mrand.New(mrand.NewSource(seed))
}

// CryptoSeed returns a random int64 from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed, non-zero seed.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// Chance reports whether an event with probability p happens.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Range returns a uniform float in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Fixed is a Source that always returns the same values. Useful in tests to
// force or forbid probabilistic branches.
type Fixed struct {
	F float64
	I int
}

func (f Fixed) Float64() float64 { return f.F }

func (f Fixed) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if f.I >= n {
		return n - 1
	}
	if f.I < 0 {
		return 0
	}
	return f.I
}

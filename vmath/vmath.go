package vmath

import (
	"math"
)

// Tolerances shared by the vector, quaternion and matrix helpers
const (
	// Epsilon is the length below which a vector is treated as zero
	Epsilon = 1e-9
	// EpsilonSq is Epsilon squared, compared against squared magnitudes
	EpsilonSq = Epsilon * Epsilon
)

// --- Scalars ---

// Lerp interpolates linearly between a and b, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether f is neither NaN nor infinite
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ApproxEqual compares with an absolute tolerance
func ApproxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- Randomness ---

// FastRand is a xorshift64 generator
// Seeded runs are reproducible across platforms, used for logged random topologies
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) built from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

package utils

import (
	"math/rand"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// UniformInt64 maps a draw r in [0,1) onto the inclusive range [min,max].
func UniformInt64(r float64, min, max int64) int64 {
	if min >= max {
		return min
	}
	v := min + int64(r*float64(max-min+1))
	if v > max {
		return max
	}
	return v
}

// Clamp bounds v to [lo, hi].
func Clamp[T ~int | ~int64 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

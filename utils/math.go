// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Number is the set of types the helpers in this package operate on.
type Number interface {
	~float32 | ~float64 | ~int | ~int64
}

// Clamp limits x to [lo, hi].
func Clamp[T Number](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, p float64) float64 {
	return a + (b-a)*p
}

// LinearToDecibels converts a linear magnitude to decibels.
// Zero (or negative) magnitudes map to -Inf, like a real analyser would report.
func LinearToDecibels(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(x)
}

// DecibelsToLinear is the inverse of LinearToDecibels.
func DecibelsToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

package vmath

import "math"

const Tau = 2 * math.Pi

// WrapAngle maps a to the equivalent angle in (-π, π]
func WrapAngle(a float64) float64 {
	w := math.Mod(a, Tau)
	switch {
	case w > math.Pi:
		w -= Tau
	case w <= -math.Pi:
		w += Tau
	}
	return w
}

// AngleSubtract returns the signed shortest rotation from b to a, in (-π, π]
func AngleSubtract(a, b float64) float64 {
	return WrapAngle(a - b)
}

// NormalizeAngle maps a to [0, 2π)
func NormalizeAngle(a float64) float64 {
	w := math.Mod(a, Tau)
	if w < 0 {
		w += Tau
	}
	// -tiny + Tau rounds to Tau
	if w >= Tau {
		w = 0
	}
	return w
}

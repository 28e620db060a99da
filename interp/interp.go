// Package interp blends the previous and current simulation generations for presentation
package interp

import (
	"math"

	"github.com/lixenwraith/metronome/vmath"
)

// maxPhase is the largest float64 below 1
var maxPhase = math.Nextafter(1, 0)

// ClampPhase clamps phase into [0, 1)
// Panics on NaN: a NaN phase means a broken reconciler, not a rendering choice
func ClampPhase(phase float64) float64 {
	switch {
	case math.IsNaN(phase):
		panic("interp: NaN phase")
	case phase < 0:
		return 0
	case phase >= 1:
		return maxPhase
	}
	return phase
}

// Lerp returns prev + (cur - prev) * phase
func Lerp(prev, cur, phase float64) float64 {
	phase = ClampPhase(phase)
	if phase == 0 {
		return prev
	}
	return prev + (cur-prev)*phase
}

// LerpVec blends each component linearly
func LerpVec(prev, cur vmath.Vec2, phase float64) vmath.Vec2 {
	return vmath.Vec2{
		X: Lerp(prev.X, cur.X, phase),
		Y: Lerp(prev.Y, cur.Y, phase),
	}
}

// LerpAngle blends along the shorter arc; the result is not normalized
func LerpAngle(prev, cur, phase float64) float64 {
	phase = ClampPhase(phase)
	if phase == 0 {
		return prev
	}
	return prev + vmath.WrapAngle(cur-prev)*phase
}

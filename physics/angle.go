package physics

import (
	"math"

	"github.com/lixenwraith/metronome/vmath"
)

// wrapTurn is a truncated remainder by one full turn
func wrapTurn(a float64) float64 {
	return math.Mod(a, vmath.Tau)
}

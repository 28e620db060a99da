package component

import (
	"github.com/lixenwraith/metronome/interp"
	"github.com/lixenwraith/metronome/vmath"
)

// Placement locates an entity in world space
type Placement struct {
	Position vmath.Vec2
	Angle    float64
	Scale    float64
}

// Transform returns the model-to-world transform
func (p Placement) Transform() vmath.Affine {
	return vmath.Similarity(p.Position, p.Angle, p.Scale)
}

// Blend returns the placement between prev and p at phase
// Position blends linearly, angle along the shorter arc, scale is taken from p
func (p Placement) Blend(prev Placement, phase float64) Placement {
	return Placement{
		Position: interp.LerpVec(prev.Position, p.Position, phase),
		Angle:    interp.LerpAngle(prev.Angle, p.Angle, phase),
		Scale:    p.Scale,
	}
}

// PhasedTransform returns the transform of the placement blended from prev at phase
func (p Placement) PhasedTransform(prev Placement, phase float64) vmath.Affine {
	return p.Blend(prev, phase).Transform()
}

package physics

import (
	"github.com/lixenwraith/metronome/vmath"
)

// Body is the rigid-body state of one entity; forces accumulate until Integrate
// All quantities are per tick: velocity in units/tick, acceleration in units/tick²
type Body struct {
	Mass            float64
	Moment          float64
	Force           vmath.Vec2
	Torque          float64
	Velocity        vmath.Vec2
	AngularVelocity float64
}

// ApplyForce accumulates a force for the current tick
func (b *Body) ApplyForce(f vmath.Vec2) {
	b.Force = vmath.V2Add(b.Force, f)
}

// ApplyTorque accumulates a torque for the current tick
func (b *Body) ApplyTorque(t float64) {
	b.Torque += t
}

// ApplyDrag applies quadratic drag opposing velocity
func (b *Body) ApplyDrag(airThickness float64) {
	drag := vmath.V2MagSq(b.Velocity) * -airThickness
	if drag != 0 {
		b.ApplyForce(vmath.V2Scale(vmath.V2Normalize(b.Velocity), drag))
	}
}

// Integrate advances one tick with half-step position integration and clears forces
// Returns the new position and angle; the angle keeps its sign and stays within one turn
func (b *Body) Integrate(position vmath.Vec2, angle float64) (vmath.Vec2, float64) {
	var linear vmath.Vec2
	if b.Mass != 0 {
		linear = vmath.V2Scale(b.Force, 1/b.Mass)
	}
	var angular float64
	if b.Moment != 0 {
		angular = b.Torque / b.Moment
	}

	position = vmath.V2Add(position, vmath.V2Add(b.Velocity, vmath.V2Scale(linear, 0.5)))
	angle = wrapTurn(angle + b.AngularVelocity + angular*0.5)

	b.Velocity = vmath.V2Add(b.Velocity, linear)
	b.AngularVelocity += angular

	b.Force = vmath.Vec2{}
	b.Torque = 0
	return position, angle
}

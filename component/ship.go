package component

import (
	"github.com/lixenwraith/metronome/physics"
	"github.com/lixenwraith/metronome/vmath"
)

// Physics is the rigid-body state of an entity
type Physics = physics.Body

// Visible marks an entity for rendering with a model resolved by path
type Visible struct {
	ModelPath string
}

// ShipControls is the per-tick input of a ship
type ShipControls struct {
	Movement vmath.Vec2 // left stick
	Aim      vmath.Vec2 // right stick, zero means hold heading
	Fire     bool
}

// ShipControlCharacteristics holds per-ship controller state
type ShipControlCharacteristics struct {
	AimController physics.PIDController
}

// WorldPhysics holds simulation-wide physics constants
type WorldPhysics struct {
	AirThickness float64
}

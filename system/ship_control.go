package system

import (
	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/vmath"
)

// ShipControlSystem turns ship controls into forces and torques
// Movement pushes the ship directly; aim steers its heading through the ship's PID controller
type ShipControlSystem struct {
	cols component.Columns
}

// NewShipControlSystem creates a ship control system over cols
func NewShipControlSystem(cols component.Columns) *ShipControlSystem {
	return &ShipControlSystem{cols: cols}
}

func (s *ShipControlSystem) Name() string {
	return "ship_control"
}

// Priority returns the system's priority (after input, before physics)
func (s *ShipControlSystem) Priority() int {
	return parameter.PriorityShipControl
}

// Update applies movement force and aim torque to every controllable ship
func (s *ShipControlSystem) Update(tx *engine.Txn) error {
	entities := make([]engine.Entity, 0, s.cols.ShipControls.Len(tx))
	s.cols.ShipControls.Each(tx, func(e engine.Entity, _ component.ShipControls) bool {
		entities = append(entities, e)
		return true
	})

	for _, e := range entities {
		controls, _ := s.cols.ShipControls.Get(tx, e)
		placement, ok := s.cols.Placement.Get(tx, e)
		if !ok {
			continue
		}
		chars, ok := s.cols.Characteristics.Get(tx, e)
		if !ok {
			continue
		}
		body, ok := s.cols.Physics.Get(tx, e)
		if !ok {
			continue
		}

		body.ApplyForce(vmath.V2Scale(controls.Movement, parameter.MovementForceScale))

		// Zero aim holds the current heading; the controller still damps spin
		var diff float64
		if !vmath.V2IsZero(controls.Aim) {
			diff = vmath.AngleSubtract(vmath.V2Angle(controls.Aim), placement.Angle)
		}
		body.ApplyTorque(chars.AimController.ControlOutput(diff, body.AngularVelocity) * parameter.AimTorqueScale)

		if err := s.cols.Physics.Set(tx, e, body); err != nil {
			return err
		}
		if err := s.cols.Characteristics.Set(tx, e, chars); err != nil {
			return err
		}
	}
	return nil
}

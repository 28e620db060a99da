package system

import (
	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
)

// PhysicsSystem applies drag and integrates every body by one tick
type PhysicsSystem struct {
	cols component.Columns
}

// NewPhysicsSystem creates a physics system over cols
func NewPhysicsSystem(cols component.Columns) *PhysicsSystem {
	return &PhysicsSystem{cols: cols}
}

func (s *PhysicsSystem) Name() string {
	return "physics"
}

// Priority returns the system's priority (runs after all force producers)
func (s *PhysicsSystem) Priority() int {
	return parameter.PriorityPhysics
}

// Update integrates entities carrying both Placement and Physics
func (s *PhysicsSystem) Update(tx *engine.Txn) error {
	air := s.cols.WorldPhysics.Get(tx).AirThickness

	type moving struct {
		e         engine.Entity
		placement component.Placement
		body      component.Physics
	}
	var bodies []moving
	engine.Join2(tx, s.cols.Placement, s.cols.Physics, func(e engine.Entity, p component.Placement, b component.Physics) bool {
		bodies = append(bodies, moving{e, p, b})
		return true
	})

	for _, m := range bodies {
		m.body.ApplyDrag(air)
		m.placement.Position, m.placement.Angle = m.body.Integrate(m.placement.Position, m.placement.Angle)

		if err := s.cols.Placement.Set(tx, m.e, m.placement); err != nil {
			return err
		}
		if err := s.cols.Physics.Set(tx, m.e, m.body); err != nil {
			return err
		}
	}
	return nil
}

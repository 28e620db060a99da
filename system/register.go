package system

import (
	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
)

// Pipeline is the tick pipeline of the ship simulation
type Pipeline struct {
	Input   *ControlInputSystem
	Control *ShipControlSystem
	Physics *PhysicsSystem
}

// NewPipeline creates every system of the tick pipeline
func NewPipeline(cols component.Columns) Pipeline {
	return Pipeline{
		Input:   NewControlInputSystem(cols),
		Control: NewShipControlSystem(cols),
		Physics: NewPhysicsSystem(cols),
	}
}

// Register adds the pipeline's systems to world
func (p Pipeline) Register(world *engine.World) {
	world.AddSystem(p.Input)
	world.AddSystem(p.Control)
	world.AddSystem(p.Physics)
}

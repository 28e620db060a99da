package game

import (
	"fmt"

	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/config"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/physics"
	"github.com/lixenwraith/metronome/system"
	"github.com/lixenwraith/metronome/vmath"
)

// Simulation is the ship world built from a configuration
type Simulation struct {
	Cols     component.Columns
	World    *engine.World
	Pipeline system.Pipeline

	// Ships lists spawned entities in configuration order
	Ships []engine.Entity
	// Player is the controlled ship, zero when none is configured
	Player engine.Entity
}

// NewSimulation registers the component schema, spawns every configured ship into
// generation zero and registers the tick pipeline
func NewSimulation(cfg *config.Config) (*Simulation, error) {
	schema := engine.NewSchema()
	sim := &Simulation{Cols: component.Register(schema)}

	spawn := engine.SystemFunc{Label: "spawn", Fn: func(tx *engine.Txn) error {
		sim.Cols.WorldPhysics.Set(tx, component.WorldPhysics{AirThickness: cfg.Physics.AirThickness})
		for i, ship := range cfg.Ships {
			e, err := sim.spawnShip(tx, ship)
			if err != nil {
				return fmt.Errorf("ship %d: %w", i, err)
			}
			sim.Ships = append(sim.Ships, e)
			if ship.Player {
				sim.Player = e
			}
		}
		return nil
	}}

	store, err := engine.NewStore(schema, spawn)
	if err != nil {
		return nil, err
	}

	sim.World = engine.NewWorld(store)
	sim.Pipeline = system.NewPipeline(sim.Cols)
	sim.Pipeline.Register(sim.World)
	return sim, nil
}

func (sim *Simulation) spawnShip(tx *engine.Txn, ship config.ShipConfig) (engine.Entity, error) {
	e := tx.Spawn()

	aim := physics.DefaultPIDController()
	if ship.Aim != nil {
		aim = physics.NewPIDController(ship.Aim.Proportional, ship.Aim.Integral, ship.Aim.Derivative)
	}

	if err := sim.Cols.Placement.Set(tx, e, component.Placement{
		Position: vmath.V2(ship.X, ship.Y),
		Angle:    ship.Angle,
		Scale:    ship.Scale,
	}); err != nil {
		return 0, err
	}
	if err := sim.Cols.Physics.Set(tx, e, component.Physics{
		Mass:            ship.Mass,
		Moment:          ship.Moment,
		Velocity:        vmath.V2(ship.VelocityX, ship.VelocityY),
		AngularVelocity: ship.AngularVelocity,
	}); err != nil {
		return 0, err
	}
	if ship.Model != "" {
		if err := sim.Cols.Visible.Set(tx, e, component.Visible{ModelPath: ship.Model}); err != nil {
			return 0, err
		}
	}
	if err := sim.Cols.ShipControls.Set(tx, e, component.ShipControls{}); err != nil {
		return 0, err
	}
	if err := sim.Cols.Characteristics.Set(tx, e, component.ShipControlCharacteristics{AimController: aim}); err != nil {
		return 0, err
	}
	return e, nil
}

// Steer submits controls for the player ship; it reports false when no player is configured
func (sim *Simulation) Steer(controls component.ShipControls) bool {
	if sim.Player == 0 {
		return false
	}
	sim.Pipeline.Input.Submit(sim.Player, controls)
	return true
}

// FireEdges counts ships whose fire control went from released to pressed between prev and cur
func (sim *Simulation) FireEdges(prev, cur *engine.Generation) int {
	n := 0
	sim.Cols.ShipControls.Each(cur, func(e engine.Entity, c component.ShipControls) bool {
		if !c.Fire {
			return true
		}
		if before, ok := sim.Cols.ShipControls.Get(prev, e); !ok || !before.Fire {
			n++
		}
		return true
	})
	return n
}

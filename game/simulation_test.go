package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/config"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/physics"
	"github.com/lixenwraith/metronome/vmath"
)

func TestNewSimulationSpawnsConfiguredShips(t *testing.T) {
	sim, err := NewSimulation(config.Default())
	require.NoError(t, err)

	require.Len(t, sim.Ships, 2)
	assert.Equal(t, sim.Ships[0], sim.Player)

	gen := sim.World.Store().Current()
	assert.Equal(t, engine.TickCounter(0), gen.Tick())
	assert.Equal(t, 2, gen.Len())

	marker, ok := sim.Cols.Placement.Get(gen, sim.Ships[1])
	require.True(t, ok)
	assert.Equal(t, vmath.V2(-20, 8), marker.Position)

	body, ok := sim.Cols.Physics.Get(gen, sim.Ships[1])
	require.True(t, ok)
	assert.Equal(t, vmath.V2(0.05, 0), body.Velocity)

	chars, ok := sim.Cols.Characteristics.Get(gen, sim.Player)
	require.True(t, ok)
	assert.Equal(t, physics.DefaultPIDController(), chars.AimController)

	wp := sim.Cols.WorldPhysics.Get(gen)
	assert.Equal(t, config.Default().Physics.AirThickness, wp.AirThickness)

	names := make([]string, 0)
	for _, s := range sim.World.Systems() {
		names = append(names, engine.SystemName(s))
	}
	assert.Equal(t, []string{"control_input", "ship_control", "physics"}, names)
}

func TestNewSimulationShipOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Ships = []config.ShipConfig{
		{Scale: 1, Mass: 1, Moment: 1, Aim: &physics.PIDController{Proportional: 2, Derivative: 3}},
	}
	sim, err := NewSimulation(cfg)
	require.NoError(t, err)

	gen := sim.World.Store().Current()
	e := sim.Ships[0]
	assert.False(t, sim.Cols.Visible.Has(gen, e), "no model, not drawn")

	chars, ok := sim.Cols.Characteristics.Get(gen, e)
	require.True(t, ok)
	assert.Equal(t, physics.NewPIDController(2, 0, 3), chars.AimController)

	assert.Equal(t, engine.Entity(0), sim.Player)
	assert.False(t, sim.Steer(component.ShipControls{Fire: true}))
}

func TestSteerMovesPlayer(t *testing.T) {
	sim, err := NewSimulation(config.Default())
	require.NoError(t, err)

	require.True(t, sim.Steer(component.ShipControls{Movement: vmath.V2(1, 0)}))
	for range 5 {
		require.NoError(t, sim.World.Tick())
	}

	p, ok := sim.Cols.Placement.Get(sim.World.Store().Current(), sim.Player)
	require.True(t, ok)
	assert.Greater(t, p.Position.X, 0.0)
	assert.InDelta(t, 0.0, p.Position.Y, 1e-12)
}

package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/physics"
	"github.com/lixenwraith/metronome/vmath"
)

type fixture struct {
	cols     component.Columns
	world    *engine.World
	pipeline Pipeline
	ship     engine.Entity
}

func newFixture(t *testing.T, air float64) *fixture {
	t.Helper()
	schema := engine.NewSchema()
	f := &fixture{cols: component.Register(schema)}

	setup := engine.SystemFunc{Label: "setup", Fn: func(tx *engine.Txn) error {
		f.cols.WorldPhysics.Set(tx, component.WorldPhysics{AirThickness: air})
		f.ship = tx.Spawn()
		if err := f.cols.Placement.Set(tx, f.ship, component.Placement{Scale: 1}); err != nil {
			return err
		}
		if err := f.cols.Physics.Set(tx, f.ship, component.Physics{Mass: 1, Moment: 1}); err != nil {
			return err
		}
		if err := f.cols.ShipControls.Set(tx, f.ship, component.ShipControls{}); err != nil {
			return err
		}
		return f.cols.Characteristics.Set(tx, f.ship, component.ShipControlCharacteristics{
			AimController: physics.DefaultPIDController(),
		})
	}}

	store, err := engine.NewStore(schema, setup)
	require.NoError(t, err)
	f.world = engine.NewWorld(store)
	f.pipeline = NewPipeline(f.cols)
	f.pipeline.Register(f.world)
	return f
}

func (f *fixture) placement(t *testing.T) component.Placement {
	t.Helper()
	p, ok := f.cols.Placement.Get(f.world.Store().Current(), f.ship)
	require.True(t, ok)
	return p
}

func TestPipelineOrder(t *testing.T) {
	f := newFixture(t, 0)
	systems := f.world.Systems()
	require.Len(t, systems, 3)
	assert.Equal(t, "control_input", engine.SystemName(systems[0]))
	assert.Equal(t, "ship_control", engine.SystemName(systems[1]))
	assert.Equal(t, "physics", engine.SystemName(systems[2]))
}

func TestMovementAppliesForce(t *testing.T) {
	f := newFixture(t, 0)
	f.pipeline.Input.Submit(f.ship, component.ShipControls{Movement: vmath.V2(1, 0)})

	require.NoError(t, f.world.Tick())
	p := f.placement(t)
	// a = 0.005; x += v + a/2
	assert.InDelta(t, 0.0025, p.Position.X, 1e-12)
	assert.InDelta(t, 0, p.Position.Y, 1e-12)

	require.NoError(t, f.world.Tick())
	p = f.placement(t)
	// v = 0.005 after the first tick
	assert.InDelta(t, 0.0025+0.005+0.0025, p.Position.X, 1e-12)

	body, _ := f.cols.Physics.Get(f.world.Store().Current(), f.ship)
	assert.Equal(t, vmath.Vec2{}, body.Force, "forces are cleared after integration")
}

func TestDragLimitsSpeed(t *testing.T) {
	f := newFixture(t, 0.5)
	f.pipeline.Input.Submit(f.ship, component.ShipControls{Movement: vmath.V2(1, 0)})

	for range 2000 {
		require.NoError(t, f.world.Tick())
	}
	body, _ := f.cols.Physics.Get(f.world.Store().Current(), f.ship)

	// Terminal speed where 0.5 v² = 0.005
	assert.InDelta(t, math.Sqrt(0.01), body.Velocity.X, 1e-6)
}

func TestAimSteersTowardTarget(t *testing.T) {
	f := newFixture(t, 0)
	f.pipeline.Input.Submit(f.ship, component.ShipControls{Aim: vmath.V2(0, 1)})

	require.NoError(t, f.world.Tick())
	// Output saturates at 1, torque 0.05, half-step angle
	assert.InDelta(t, 0.025, f.placement(t).Angle, 1e-12)

	for range 600 {
		require.NoError(t, f.world.Tick())
	}
	assert.InDelta(t, math.Pi/2, f.placement(t).Angle, 1e-3)
}

func TestZeroAimHoldsHeading(t *testing.T) {
	f := newFixture(t, 0)
	for range 10 {
		require.NoError(t, f.world.Tick())
	}
	assert.Equal(t, 0.0, f.placement(t).Angle)
}

func TestMissingPlayerIsSkipped(t *testing.T) {
	f := newFixture(t, 0)
	f.pipeline.Input.Submit(engine.Entity(999), component.ShipControls{Fire: true})

	require.NoError(t, f.world.Tick())
	controls, _ := f.cols.ShipControls.Get(f.world.Store().Current(), f.ship)
	assert.False(t, controls.Fire)

	f.pipeline.Input.Forget(engine.Entity(999))
	require.NoError(t, f.world.Tick())
}

func TestControlInputLatestWins(t *testing.T) {
	f := newFixture(t, 0)
	f.pipeline.Input.Submit(f.ship, component.ShipControls{Fire: true})
	f.pipeline.Input.Submit(f.ship, component.ShipControls{Movement: vmath.V2(0, -1)})

	require.NoError(t, f.world.Tick())
	f.world.View(func(prev, cur *engine.Generation) {
		before, _ := f.cols.ShipControls.Get(prev, f.ship)
		after, _ := f.cols.ShipControls.Get(cur, f.ship)
		assert.Equal(t, component.ShipControls{}, before)
		assert.Equal(t, component.ShipControls{Movement: vmath.V2(0, -1)}, after)
	})
}

package component

import (
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
)

// Columns holds the handles of every component table of the ship simulation
type Columns struct {
	Placement       engine.Column[Placement]
	Physics         engine.Column[Physics]
	Visible         engine.Column[Visible]
	ShipControls    engine.Column[ShipControls]
	Characteristics engine.Column[ShipControlCharacteristics]

	WorldPhysics engine.Resource[WorldPhysics]
}

// Register adds every component column and resource to schema
func Register(schema *engine.Schema) Columns {
	return Columns{
		Placement:       engine.RegisterColumn[Placement](schema, "placement"),
		Physics:         engine.RegisterColumn[Physics](schema, "physics"),
		Visible:         engine.RegisterColumn[Visible](schema, "visible"),
		ShipControls:    engine.RegisterColumn[ShipControls](schema, "ship_controls"),
		Characteristics: engine.RegisterColumn[ShipControlCharacteristics](schema, "ship_control_characteristics"),
		WorldPhysics: engine.RegisterResource(schema, "world_physics", WorldPhysics{
			AirThickness: parameter.DefaultAirThickness,
		}),
	}
}

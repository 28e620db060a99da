package render

import (
	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/interp"
	"github.com/lixenwraith/metronome/vmath"
)

// Instance is one entity to draw this frame
type Instance struct {
	Entity    engine.Entity
	Placement component.Placement // blended
	Transform vmath.Affine
	ModelPath string
	Fresh     bool // spawned this tick; drawn at its current placement
}

// View is the interpolated projection of the previous and current generations
type View struct {
	Tick      engine.TickCounter
	Phase     float64
	Instances []Instance
}

// BuildView blends every visible entity of cur with its state in prev at phase
// Entities absent from prev render at their current placement; entities absent from cur are not rendered
func BuildView(cols component.Columns, prev, cur *engine.Generation, phase float64) View {
	phase = interp.ClampPhase(phase)
	v := View{
		Tick:      cur.Tick(),
		Phase:     phase,
		Instances: make([]Instance, 0, cols.Visible.Len(cur)),
	}

	engine.Join2(cur, cols.Placement, cols.Visible, func(e engine.Entity, p component.Placement, vis component.Visible) bool {
		inst := Instance{Entity: e, Placement: p, ModelPath: vis.ModelPath}
		if before, ok := cols.Placement.Get(prev, e); ok {
			inst.Placement = p.Blend(before, phase)
		} else {
			inst.Fresh = true
		}
		inst.Transform = inst.Placement.Transform()
		v.Instances = append(v.Instances, inst)
		return true
	})
	return v
}

package render

import (
	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
)

// Renderer presents one interpolated view
type Renderer interface {
	Render(v View) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(v View) error

func (f RendererFunc) Render(v View) error {
	return f(v)
}

// Present returns a frame handler that builds the view of cols between prev and cur and hands it to r
func Present(cols component.Columns, r Renderer) func(prev, cur *engine.Generation, phase float64) error {
	return func(prev, cur *engine.Generation, phase float64) error {
		return r.Render(BuildView(cols, prev, cur, phase))
	}
}

package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/metronome/asset"
	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/vmath"
)

// TerminalRenderer draws views onto a tcell screen
// World origin maps to the center of the play area; +Y points up
type TerminalRenderer struct {
	screen tcell.Screen
	models *asset.ModelRegistry
	scale  float64

	mu     sync.Mutex
	status string
}

// NewTerminalRenderer creates a renderer drawing models from models at scale cells per world unit
func NewTerminalRenderer(screen tcell.Screen, models *asset.ModelRegistry, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = parameter.DefaultRenderScale
	}
	return &TerminalRenderer{
		screen: screen,
		models: models,
		scale:  scale,
	}
}

// SetStatus replaces the trailing text of the status line
func (r *TerminalRenderer) SetStatus(s string) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Render draws every instance and the status line, then shows the screen
func (r *TerminalRenderer) Render(v View) error {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	width, height := r.screen.Size()

	// Bottom row is the status line
	playHeight := height - 1

	for _, inst := range v.Instances {
		path := inst.ModelPath
		if path == "" {
			path = parameter.DefaultModelPath
		}
		model, err := r.models.Get(path)
		if err != nil {
			return fmt.Errorf("entity %d: %w", inst.Entity, err)
		}
		for _, g := range model.Glyphs {
			x, y, ok := r.cell(inst.Transform.Apply(g.Offset()), width, playHeight)
			if !ok {
				continue
			}
			r.screen.SetContent(x, y, rune(g.Rune), nil, defaultStyle.Foreground(GlyphColor(g.Color)))
		}
	}

	r.drawStatusBar(v, width, height, defaultStyle)
	r.screen.Show()
	return nil
}

// cell maps a world point to a screen cell inside the width x height play area
func (r *TerminalRenderer) cell(p vmath.Vec2, width, height int) (int, int, bool) {
	x := int(math.Floor(p.X*r.scale + float64(width)/2))
	y := int(math.Floor(-p.Y*r.scale/parameter.CellAspect + float64(height)/2))
	if x < 0 || y < 0 || x >= width || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

func (r *TerminalRenderer) drawStatusBar(v View, width, height int, defaultStyle tcell.Style) {
	if height < 1 {
		return
	}
	r.mu.Lock()
	text := fmt.Sprintf("tick %d  phase %.2f  %s", v.Tick, v.Phase, r.status)
	r.mu.Unlock()

	style := defaultStyle.Foreground(RgbStatusText)
	col := 0
	for _, ch := range text {
		if col >= width {
			break
		}
		r.screen.SetContent(col, height-1, ch, nil, style)
		col++
	}
}

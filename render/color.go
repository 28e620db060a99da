package render

import "github.com/gdamore/tcell/v2"

var (
	RgbBackground = tcell.NewRGBColor(0, 0, 0)
	RgbStatusText = tcell.NewRGBColor(0, 255, 255)
	RgbGlyph      = tcell.NewRGBColor(255, 255, 255)
)

// GlyphColor resolves a model color, falling back to white
func GlyphColor(hex string) tcell.Color {
	if hex == "" {
		return RgbGlyph
	}
	if c := tcell.GetColor(hex); c != tcell.ColorDefault {
		return c
	}
	return RgbGlyph
}

package asset

// DefaultShipModel is a small arrow pointing along +X
const DefaultShipModel = `
name: ship
glyphs:
  - { x: 1,  y: 0,    rune: ">", color: "#00ff88" }
  - { x: 0,  y: 0,    rune: "#", color: "#00aa66" }
  - { x: -1, y: 0.5,  rune: "/", color: "#008855" }
  - { x: -1, y: -0.5, rune: "\\", color: "#008855" }
`

// DefaultMarkerModel is a single dot
const DefaultMarkerModel = `
name: marker
glyphs:
  - { x: 0, y: 0, rune: "*" }
`

// builtinModels are served when a path is missing from the asset directory
var builtinModels = map[string]string{
	"models/ship.yaml":   DefaultShipModel,
	"models/marker.yaml": DefaultMarkerModel,
}

package parameter

// Terminal rendering
const (
	// DefaultRenderScale is terminal cells per world unit
	DefaultRenderScale = 1.0

	// CellAspect compensates for terminal cells being about twice as tall as wide
	CellAspect = 2.0

	// DefaultModelPath is used for entities without a model
	DefaultModelPath = "models/ship.yaml"
)

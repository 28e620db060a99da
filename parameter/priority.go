package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityControlInput = 0  // Input mapping applies before anything reads controls
	PriorityShipControl  = 10 // Converts controls into forces
	PriorityPhysics      = 20 // Integrates forces accumulated this tick
)

package parameter

import "time"

// Reconciler defaults
const (
	// DefaultTicksPerSecond is the simulation rate
	DefaultTicksPerSecond = 60

	// DefaultLagBudget is how many ticks the simulation may fall behind before ticks are dropped
	DefaultLagBudget = 5

	// DefaultTargetFPS is the frame pacing used by the target_fps mode when none is configured
	DefaultTargetFPS = 60

	// MaxIdleSleep caps a single host-loop sleep so input and shutdown stay responsive
	MaxIdleSleep = 50 * time.Millisecond
)

// Logging
const (
	// AnomalyLogInterval is the minimum spacing between repeated anomaly log lines
	AnomalyLogInterval = time.Second
)

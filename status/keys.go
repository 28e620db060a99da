package status

// Reconciler and simulation metric keys
// Keys ending in _total are monotonic counters
const (
	KeyTicks        = "ticks_total"
	KeyFrames       = "frames_total"
	KeyTicksLost    = "ticks_lost_total"
	KeyRegressions  = "clock_regressions_total"
	KeyRollovers    = "tick_rollovers_total"
	KeyAdvanceFails = "advance_failures_total"
	KeyRenderFails  = "render_failures_total"

	KeyTick       = "tick"
	KeyEntities   = "entities"
	KeyIdleSecond = "idle_seconds"
	KeyPhase      = "frame_phase"
	KeyFPS        = "frames_per_second"

	KeyPaused = "paused"
	KeyMode   = "mode"
)

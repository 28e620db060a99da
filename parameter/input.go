package parameter

import "time"

// Terminal input
const (
	// FirePulse is how long a fire key press holds the fire control
	FirePulse = 150 * time.Millisecond

	// InputExpiryInterval is how often held controls are checked for expiry
	InputExpiryInterval = 25 * time.Millisecond
)

// Metrics endpoint
const (
	MetricsNamespace       = "metronome"
	MetricsPath            = "/metrics"
	MetricsReadTimeout     = 5 * time.Second
	MetricsShutdownTimeout = 2 * time.Second
)

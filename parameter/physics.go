package parameter

// Ship control tuning, per tick
const (
	// MovementForceScale converts stick deflection into force
	MovementForceScale = 0.005

	// AimTorqueScale converts aim controller output into torque
	AimTorqueScale = 0.05

	// DefaultAirThickness is the quadratic drag coefficient
	DefaultAirThickness = 0.01
)

// Aim controller defaults (PD)
const (
	AimProportional = 1.0
	AimIntegral     = 0.0
	AimDerivative   = 5.0
)

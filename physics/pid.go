package physics

// PIDController produces a control output from an error signal and its rate of change
// Integral state lives in the value; store the updated controller back after each call
type PIDController struct {
	Proportional float64 `yaml:"p"`
	Integral     float64 `yaml:"i"`
	Derivative   float64 `yaml:"d"`

	accumulated float64
}

// NewPIDController creates a controller with the given coefficients and zero integral
func NewPIDController(p, i, d float64) PIDController {
	return PIDController{Proportional: p, Integral: i, Derivative: d}
}

// DefaultPIDController is a PD controller tuned for ship aim: P=1, I=0, D=5
func DefaultPIDController() PIDController {
	return NewPIDController(1, 0, 5)
}

// ControlOutput returns the clamped [-1, 1] output for targetDelta and accumulates it
// currentVelocity is the rate at which the controlled value is already moving
func (c *PIDController) ControlOutput(targetDelta, currentVelocity float64) float64 {
	out := targetDelta*c.Proportional +
		(c.accumulated+targetDelta*0.5)*c.Integral -
		currentVelocity*c.Derivative
	c.accumulated += targetDelta
	return min(max(out, -1), 1)
}

// Accumulated returns the integral term's running sum
func (c *PIDController) Accumulated() float64 {
	return c.accumulated
}

// Reset clears the integral state
func (c *PIDController) Reset() {
	c.accumulated = 0
}

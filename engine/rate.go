package engine

import (
	"fmt"
	"math"
	"math/bits"
	"time"
)

// Rate is a rational frequency: Count occurrences per Per of wall time
// Kept as integers so accumulated timing never drifts over long runs
type Rate struct {
	Count uint64
	Per   time.Duration
}

// PerSecond returns a rate of n occurrences per second
func PerSecond(n uint64) Rate {
	return Rate{Count: n, Per: time.Second}
}

// Validate reports whether the rate can drive an accumulator
func (r Rate) Validate() error {
	if r.Count == 0 || r.Per <= 0 {
		return fmt.Errorf("%w: %d per %v", ErrInvalidRate, r.Count, r.Per)
	}
	return nil
}

// Interval returns the nominal duration of one occurrence, truncated to nanoseconds
// Display only; accounting never uses the truncated value
func (r Rate) Interval() time.Duration {
	if r.Count == 0 {
		return 0
	}
	return time.Duration(uint64(r.Per) / r.Count)
}

func (r Rate) String() string {
	return fmt.Sprintf("%d/%v", r.Count, r.Per)
}

// accumulator converts elapsed wall time into whole occurrences with an exact remainder
// Each elapsed nanosecond contributes Count units; one occurrence costs Per (in ns) units
type accumulator struct {
	rate Rate
	rem  uint64 // invariant: rem < cost()
}

func (a *accumulator) cost() uint64 {
	return uint64(a.rate.Per)
}

// add accrues elapsed time and returns the number of whole occurrences completed
// Negative or zero elapsed time accrues nothing
func (a *accumulator) add(elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	cost := a.cost()
	hi, lo := bits.Mul64(uint64(elapsed), a.rate.Count)
	var carry uint64
	lo, carry = bits.Add64(lo, a.rem, 0)
	hi += carry

	if hi >= cost {
		// Quotient does not fit in 64 bits; saturate but keep the exact remainder
		_, a.rem = bits.Div64(hi%cost, lo, cost)
		return math.MaxUint64
	}

	var whole uint64
	whole, a.rem = bits.Div64(hi, lo, cost)
	return whole
}

// phase returns the fractional position toward the next occurrence in [0, 1)
func (a *accumulator) phase() float64 {
	p := float64(a.rem) / float64(a.cost())
	if p >= 1 {
		// Rounding of very large costs can reach 1.0
		return math.Nextafter(1, 0)
	}
	return p
}

// untilNext returns the wall time until the next occurrence completes, rounded up
func (a *accumulator) untilNext() time.Duration {
	need := a.cost() - a.rem
	ns := need / a.rate.Count
	if need%a.rate.Count != 0 {
		ns++
	}
	return time.Duration(ns)
}

// reset clears the remainder and rebinds the rate
func (a *accumulator) reset(r Rate) {
	a.rate = r
	a.rem = 0
}

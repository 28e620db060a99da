package engine

import (
	"fmt"
	"iter"
	"time"
)

// Stats holds cumulative reconciliation counters
type Stats struct {
	Samples     uint64
	Ticks       uint64
	Frames      uint64
	TicksLost   uint64
	Regressions uint64
	Rollovers   uint64
	Idles       uint64
}

// MetronomeOption configures optional Metronome state
type MetronomeOption func(*Metronome)

// WithTickCounter starts the tick counter at n instead of zero
func WithTickCounter(n TickCounter) MetronomeOption {
	return func(m *Metronome) {
		m.counter = n
	}
}

// Metronome reconciles irregular wall-clock samples into fixed-rate Tick events
// and presentation Frame events carrying an interpolation phase
//
// Usage per host-loop iteration: call Sample exactly once, then call Next until it
// returns false (or Drain / Events). Sampling zero or several times per iteration
// leaves the lag accounting undefined; the Metronome cannot detect it.
//
// All timing state is instance state; independent Metronomes never interfere.
// A Metronome is not safe for concurrent use.
type Metronome struct {
	clock     TimeProvider
	rate      Rate
	lagBudget uint64

	ticks  accumulator
	frames accumulator

	// Sample state
	last      time.Time
	sampled   bool
	elapsed   time.Duration // non-negative wall time accrued since the last drain
	backwards bool
	owed      uint64
	lost      uint64 // TicksLost planned but never delivered

	// Frame pacing for TargetFramesPerSecond
	frameRate  Rate
	framePrime bool // first drain under a new frame rate renders immediately

	counter TickCounter

	// Drain state
	queue   []Event
	head    int
	planned bool

	stats Stats
}

// NewMetronome creates a reconciler reading clock, ticking at rate, and tolerating
// lagBudget ticks of lag before discarding owed ticks
//
// The tick that falls due on schedule is not lag, so a single drain emits at most
// lagBudget+1 Ticks. When more are owed the excess (owed-1-lagBudget) is reported
// as one TicksLost ahead of the Ticks.
func NewMetronome(clock TimeProvider, rate Rate, lagBudget uint64, opts ...MetronomeOption) (*Metronome, error) {
	if err := rate.Validate(); err != nil {
		return nil, fmt.Errorf("tick rate: %w", err)
	}
	if lagBudget == 0 {
		return nil, ErrLagBudget
	}

	m := &Metronome{
		clock:     clock,
		rate:      rate,
		lagBudget: lagBudget,
		queue:     make([]Event, 0, 2*lagBudget+4),
	}
	m.ticks.reset(rate)
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Rate returns the configured tick rate
func (m *Metronome) Rate() Rate {
	return m.rate
}

// LagBudget returns the configured lag budget
func (m *Metronome) LagBudget() uint64 {
	return m.lagBudget
}

// TickCounter returns the counter value of the last emitted Tick
func (m *Metronome) TickCounter() TickCounter {
	return m.counter
}

// Stats returns cumulative counters
func (m *Metronome) Stats() Stats {
	return m.stats
}

// Sample reads the clock once and converts elapsed wall time into owed ticks
// The first sample only anchors the clock; a regression is reported on the next
// drain and contributes no time
func (m *Metronome) Sample() {
	now := m.clock.Now()
	m.stats.Samples++

	// A new sample always begins a new drain
	m.reclaim()
	m.resetDrain()

	if !m.sampled {
		m.last = now
		m.sampled = true
		return
	}

	delta := now.Sub(m.last)
	m.last = now

	if delta < 0 {
		m.backwards = true
		m.stats.Regressions++
		return
	}

	m.elapsed = satAddDuration(m.elapsed, delta)
	m.owed = satAdd(m.owed, m.ticks.add(delta))
}

// Next returns the next event of the current drain under mode
// It returns false once the drain is exhausted; the following call starts a new drain.
// The mode is read on the first call of each drain.
func (m *Metronome) Next(mode Mode) (Event, bool) {
	if !m.planned {
		m.plan(mode)
		m.planned = true
	}
	if m.head < len(m.queue) {
		ev := m.queue[m.head]
		m.head++
		return ev, true
	}
	m.resetDrain()
	return Event{}, false
}

// Drain appends the whole event sequence of one drain to dst
func (m *Metronome) Drain(mode Mode, dst []Event) []Event {
	for {
		ev, ok := m.Next(mode)
		if !ok {
			return dst
		}
		dst = append(dst, ev)
	}
}

// Events returns an iterator over one drain
// Breaking out early leaves the remaining events for the next Next/Events call.
// If Sample runs first, undelivered Ticks are owed again and undelivered
// TicksLost or TimeWentBackwards are reported by the next drain.
func (m *Metronome) Events(mode Mode) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := m.Next(mode)
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// reclaim returns the undelivered tail of an abandoned drain to the owed state
func (m *Metronome) reclaim() {
	if !m.planned {
		return
	}
	for _, ev := range m.queue[m.head:] {
		switch ev.Kind {
		case EventTimeWentBackwards:
			m.backwards = true
		case EventTicksLost:
			m.lost = satAdd(m.lost, ev.Lost)
		case EventTick:
			m.owed = satAdd(m.owed, 1)
			m.counter--
			m.stats.Ticks--
		case EventRollover:
			m.stats.Rollovers--
		case EventFrame:
			m.stats.Frames--
			// Paced mode renders the dropped frame on the next drain
			m.framePrime = true
		case EventIdle:
			m.stats.Idles--
		}
	}
}

func (m *Metronome) resetDrain() {
	m.queue = m.queue[:0]
	m.head = 0
	m.planned = false
}

// plan builds the ordered event sequence for everything owed since the last drain
//
// Order within a drain:
//  1. TimeWentBackwards, if the clock regressed
//  2. TicksLost, if owed ticks exceed the lag budget
//  3. Ticks (each followed by Rollover when the counter wraps), interleaved with
//     Frames according to mode; a frame boundary coinciding with tick boundaries
//     is rendered after all of the drain's ticks
//  4. exactly one Idle; zero under UnlimitedFrames
func (m *Metronome) plan(mode Mode) {
	if err := mode.Validate(); err != nil {
		panic(fmt.Sprintf("engine: metronome drained with invalid mode: %v", err))
	}

	if m.backwards {
		m.push(Event{Kind: EventTimeWentBackwards})
		m.backwards = false
	}

	due := m.owed
	m.owed = 0
	lost := m.lost
	m.lost = 0
	if due > 0 && due-1 > m.lagBudget {
		// The first owed tick is on schedule; only the rest counts as lag
		excess := due - 1 - m.lagBudget
		m.stats.TicksLost += excess
		lost = satAdd(lost, excess)
		due = m.lagBudget + 1
	}
	if lost > 0 {
		m.push(Event{Kind: EventTicksLost, Lost: lost})
	}

	elapsed := m.elapsed
	m.elapsed = 0
	phase := m.ticks.phase()

	switch mode.kind {
	case modeMaxOneFramePerTick:
		for range due {
			m.pushTick()
			m.pushFrame(phase)
		}
		m.pushIdle(m.ticks.untilNext())

	case modeUnlimitedFrames:
		for range due {
			m.pushTick()
			m.pushFrame(phase)
		}
		if due == 0 {
			m.pushFrame(phase)
		}
		// The next frame is always due immediately
		m.pushIdle(0)

	case modeTargetFramesPerSecond:
		for range due {
			m.pushTick()
		}
		if m.frameDue(mode.target, elapsed) {
			m.pushFrame(phase)
		}
		m.pushIdle(min(m.ticks.untilNext(), m.frames.untilNext()))
	}
}

// frameDue advances frame pacing by elapsed and reports whether a frame boundary passed
func (m *Metronome) frameDue(target Rate, elapsed time.Duration) bool {
	if m.frameRate != target {
		m.frameRate = target
		m.frames.reset(target)
		m.framePrime = true
	}
	passed := m.frames.add(elapsed) > 0
	if m.framePrime {
		m.framePrime = false
		return true
	}
	return passed
}

func (m *Metronome) push(ev Event) {
	m.queue = append(m.queue, ev)
}

func (m *Metronome) pushTick() {
	m.counter++
	m.stats.Ticks++
	m.push(Event{Kind: EventTick, Tick: m.counter})
	if m.counter == 0 {
		m.stats.Rollovers++
		m.push(Event{Kind: EventRollover})
	}
}

func (m *Metronome) pushFrame(phase float64) {
	m.stats.Frames++
	m.push(Event{Kind: EventFrame, Phase: phase})
}

func (m *Metronome) pushIdle(d time.Duration) {
	m.stats.Idles++
	m.push(Event{Kind: EventIdle, Duration: d})
}

func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}

func satAddDuration(a, b time.Duration) time.Duration {
	if s := a + b; s >= a {
		return s
	}
	return time.Duration(1<<63 - 1)
}

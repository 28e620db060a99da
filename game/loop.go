// Package game drives the simulation from wall-clock time: sample, drain, dispatch, idle
package game

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/status"
)

// FrameFunc presents one frame interpolated between prev and cur at phase
type FrameFunc func(prev, cur *engine.Generation, phase float64) error

// TickFunc observes the generation pair after a committed tick
type TickFunc func(prev, cur *engine.Generation)

// EventFunc observes every drained event before it is dispatched
type EventFunc func(ev engine.Event)

// LoopOption configures optional Loop collaborators
type LoopOption func(*Loop)

// WithStatus records loop metrics into reg instead of a private registry
func WithStatus(reg *status.Registry) LoopOption {
	return func(l *Loop) {
		l.statusReg = reg
	}
}

// OnTick adds an observer called after every committed tick
func OnTick(fn TickFunc) LoopOption {
	return func(l *Loop) {
		l.onTick = append(l.onTick, fn)
	}
}

// OnEvent adds an observer called for every drained event
func OnEvent(fn EventFunc) LoopOption {
	return func(l *Loop) {
		l.onEvent = append(l.onEvent, fn)
	}
}

// Loop is the host loop: one Sample and one full drain per iteration
// Step and Run must be called from a single goroutine; SetMode may be called from any
type Loop struct {
	metronome *engine.Metronome
	world     *engine.World
	frame     FrameFunc

	mu   sync.Mutex
	mode engine.Mode

	onTick  []TickFunc
	onEvent []EventFunc

	events []engine.Event
	warn   rate.Sometimes

	// Frames per simulated period
	windowTicks  uint64
	windowFrames uint64

	// Cached metric pointers
	statusReg        *status.Registry
	statTicks        *atomic.Int64
	statFrames       *atomic.Int64
	statTicksLost    *atomic.Int64
	statRegressions  *atomic.Int64
	statRollovers    *atomic.Int64
	statAdvanceFails *atomic.Int64
	statRenderFails  *atomic.Int64
	statTick         *atomic.Int64
	statEntities     *atomic.Int64
	statIdle         *status.AtomicFloat
	statPhase        *status.AtomicFloat
	statFPS          *status.AtomicFloat
	statMode         *status.AtomicString
}

// NewLoop creates a host loop ticking world through metronome and presenting frames through frame
// A nil frame discards frames
func NewLoop(metronome *engine.Metronome, world *engine.World, mode engine.Mode, frame FrameFunc, opts ...LoopOption) (*Loop, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if frame == nil {
		frame = func(prev, cur *engine.Generation, phase float64) error { return nil }
	}

	l := &Loop{
		metronome: metronome,
		world:     world,
		frame:     frame,
		mode:      mode,
		events:    make([]engine.Event, 0, 2*metronome.LagBudget()+4),
		warn:      rate.Sometimes{Interval: parameter.AnomalyLogInterval},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.statusReg == nil {
		l.statusReg = status.NewRegistry()
	}

	reg := l.statusReg
	l.statTicks = reg.Ints.Get(status.KeyTicks)
	l.statFrames = reg.Ints.Get(status.KeyFrames)
	l.statTicksLost = reg.Ints.Get(status.KeyTicksLost)
	l.statRegressions = reg.Ints.Get(status.KeyRegressions)
	l.statRollovers = reg.Ints.Get(status.KeyRollovers)
	l.statAdvanceFails = reg.Ints.Get(status.KeyAdvanceFails)
	l.statRenderFails = reg.Ints.Get(status.KeyRenderFails)
	l.statTick = reg.Ints.Get(status.KeyTick)
	l.statEntities = reg.Ints.Get(status.KeyEntities)
	l.statIdle = reg.Floats.Get(status.KeyIdleSecond)
	l.statPhase = reg.Floats.Get(status.KeyPhase)
	l.statFPS = reg.Floats.Get(status.KeyFPS)
	l.statMode = reg.Strings.Get(status.KeyMode)

	l.statMode.Store(mode.String())
	l.statEntities.Store(int64(world.Store().Current().Len()))
	return l, nil
}

// Status returns the registry the loop records into
func (l *Loop) Status() *status.Registry {
	return l.statusReg
}

// Mode returns the frame scheduling mode of the next drain
func (l *Loop) Mode() engine.Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// SetMode changes the frame scheduling mode from the next drain on
func (l *Loop) SetMode(mode engine.Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.mode = mode
	l.mu.Unlock()
	l.statMode.Store(mode.String())
	return nil
}

// Step performs one iteration and returns the drain's Idle duration
func (l *Loop) Step(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	mode := l.Mode()
	l.metronome.Sample()
	l.events = l.metronome.Drain(mode, l.events[:0])

	var idle time.Duration
	for _, ev := range l.events {
		for _, fn := range l.onEvent {
			fn(ev)
		}

		switch ev.Kind {
		case engine.EventTick:
			l.tick(ev.Tick)
		case engine.EventFrame:
			l.present(ev.Phase)
		case engine.EventTicksLost:
			l.statTicksLost.Add(int64(ev.Lost))
			l.warn.Do(func() {
				log.Printf("WARNING: dropped %d ticks, simulation running behind", ev.Lost)
			})
		case engine.EventTimeWentBackwards:
			l.statRegressions.Add(1)
			l.warn.Do(func() {
				log.Printf("WARNING: clock went backwards at tick %d", l.metronome.TickCounter())
			})
		case engine.EventRollover:
			l.statRollovers.Add(1)
		case engine.EventIdle:
			idle = ev.Duration
		}
	}

	l.measure()
	l.statIdle.Set(idle.Seconds())
	return idle, nil
}

func (l *Loop) tick(counter engine.TickCounter) {
	if err := l.world.Tick(); err != nil {
		l.statAdvanceFails.Add(1)
		log.Printf("ERROR: tick %d: system %s: %v", counter, l.world.Store().LastFailure(), err)
		return
	}
	l.statTicks.Add(1)
	l.statTick.Store(int64(counter))

	prev, cur := l.world.Store().Pair()
	l.statEntities.Store(int64(cur.Len()))
	for _, fn := range l.onTick {
		fn(prev, cur)
	}
	l.windowTicks++
}

// measure publishes frames per second of simulated time once a full rate period has been ticked
func (l *Loop) measure() {
	r := l.metronome.Rate()
	if l.windowTicks < r.Count {
		return
	}
	periods := float64(l.windowTicks) / float64(r.Count)
	l.statFPS.Set(float64(l.windowFrames) / periods * float64(time.Second) / float64(r.Per))
	l.windowTicks = 0
	l.windowFrames = 0
}

func (l *Loop) present(phase float64) {
	l.statFrames.Add(1)
	l.statPhase.Set(phase)
	l.windowFrames++

	var err error
	l.world.View(func(prev, cur *engine.Generation) {
		err = l.frame(prev, cur, phase)
	})
	if err != nil {
		l.statRenderFails.Add(1)
		log.Printf("ERROR: frame at phase %.3f: %v", phase, err)
	}
}

// Run steps until ctx is done, sleeping for each drain's Idle capped at MaxIdleSleep
// It returns nil on cancellation
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		idle, err := l.Step(ctx)
		if err != nil {
			return nil
		}

		sleep := min(idle, parameter.MaxIdleSleep)
		if sleep <= 0 {
			continue
		}
		timer.Reset(sleep)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil
		}
	}
}

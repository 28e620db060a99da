package engine

import (
	"fmt"
	"time"
)

// TickCounter counts simulation ticks; it wraps to zero silently and the wrap is reported as EventRollover
type TickCounter uint64

// EventKind tags a reconciliation event
type EventKind uint8

const (
	// EventTick asks the simulation to advance exactly one fixed step now
	EventTick EventKind = iota + 1
	// EventFrame asks the presentation layer to render at Phase between the last two ticks
	EventFrame
	// EventTimeWentBackwards reports a clock reading earlier than its predecessor
	EventTimeWentBackwards
	// EventTicksLost reports Lost owed ticks discarded for exceeding the lag budget
	EventTicksLost
	// EventRollover reports the tick counter wrapping to zero
	EventRollover
	// EventIdle reports nothing further is due for Duration; always the last event of a drain
	EventIdle
)

var eventKindNames = map[EventKind]string{
	EventTick:              "Tick",
	EventFrame:             "Frame",
	EventTimeWentBackwards: "TimeWentBackwards",
	EventTicksLost:         "TicksLost",
	EventRollover:          "Rollover",
	EventIdle:              "Idle",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event is one reconciliation event; only the field matching Kind is meaningful
type Event struct {
	Kind     EventKind
	Tick     TickCounter   // EventTick: counter value after this tick
	Phase    float64       // EventFrame: in [0, 1)
	Lost     uint64        // EventTicksLost: at least 1
	Duration time.Duration // EventIdle
}

func (e Event) String() string {
	switch e.Kind {
	case EventTick:
		return fmt.Sprintf("Tick(%d)", e.Tick)
	case EventFrame:
		return fmt.Sprintf("Frame(%.4f)", e.Phase)
	case EventTicksLost:
		return fmt.Sprintf("TicksLost(%d)", e.Lost)
	case EventIdle:
		return fmt.Sprintf("Idle(%v)", e.Duration)
	default:
		return e.Kind.String()
	}
}

package engine

import "fmt"

type modeKind uint8

const (
	modeMaxOneFramePerTick modeKind = iota
	modeUnlimitedFrames
	modeTargetFramesPerSecond
)

// Mode selects how a drain schedules Frame events relative to Tick events
type Mode struct {
	kind   modeKind
	target Rate
}

var (
	// MaxOneFramePerTick emits one Frame after each Tick and none when no tick is due
	MaxOneFramePerTick = Mode{kind: modeMaxOneFramePerTick}

	// UnlimitedFrames emits a Frame after each Tick, or a single Frame when no tick is due
	// Its drains end with a zero Idle
	UnlimitedFrames = Mode{kind: modeUnlimitedFrames}
)

// TargetFramesPerSecond paces Frame events by their own rate, independent of ticks
// Missed frame deadlines collapse into a single Frame emitted after the drain's ticks
func TargetFramesPerSecond(r Rate) Mode {
	return Mode{kind: modeTargetFramesPerSecond, target: r}
}

// Validate reports whether the mode is usable
func (m Mode) Validate() error {
	if m.kind == modeTargetFramesPerSecond {
		if err := m.target.Validate(); err != nil {
			return fmt.Errorf("target frame rate: %w", err)
		}
	}
	return nil
}

func (m Mode) String() string {
	switch m.kind {
	case modeMaxOneFramePerTick:
		return "MaxOneFramePerTick"
	case modeUnlimitedFrames:
		return "UnlimitedFrames"
	case modeTargetFramesPerSecond:
		return fmt.Sprintf("TargetFramesPerSecond(%v)", m.target)
	default:
		return "Unknown"
	}
}

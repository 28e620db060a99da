package audio

import (
	"sync"
	"time"

	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
)

type cueKind int

const (
	cueFire cueKind = iota
	cueLag
	cueCount
)

// Cues turns simulation happenings into sounds, spacing repeats of the same cue
type Cues struct {
	player Player
	clock  engine.TimeProvider

	mu      sync.Mutex
	enabled bool
	last    [cueCount]time.Time
}

// NewCues creates a cue observer playing through player and spacing cues by clock
func NewCues(player Player, clock engine.TimeProvider) *Cues {
	return &Cues{
		player:  player,
		clock:   clock,
		enabled: true,
	}
}

// SetEnabled mutes or unmutes every cue
func (c *Cues) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

// Toggle flips muting and reports whether cues are now enabled
func (c *Cues) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = !c.enabled
	return c.enabled
}

// Fire plays the fire cue
func (c *Cues) Fire() bool {
	if !c.allow(cueFire) {
		return false
	}
	c.player.Play(FireCue(c.player.SampleRate()))
	return true
}

// OnEvent plays the lag alarm for TicksLost; other events are silent
func (c *Cues) OnEvent(ev engine.Event) bool {
	if ev.Kind != engine.EventTicksLost || !c.allow(cueLag) {
		return false
	}
	c.player.Play(LagAlarm(c.player.SampleRate(), ev.Lost))
	return true
}

func (c *Cues) allow(kind cueKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return false
	}
	now := c.clock.Now()
	if last := c.last[kind]; !last.IsZero() && now.Sub(last) < parameter.MinCueGap {
		return false
	}
	c.last[kind] = now
	return true
}

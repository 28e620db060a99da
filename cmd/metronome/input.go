package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/vmath"
)

// action is a host-level command decoded from a key press
type action int

const (
	actionNone action = iota
	actionSteer
	actionQuit
	actionPause
	actionMute
	actionMode
)

// inputState turns discrete key presses into the latched controls of the player ship
// Movement and aim stay set until changed; fire is a pulse lasting FirePulse
type inputState struct {
	controls  component.ShipControls
	fireUntil time.Time
}

var movementKeys = map[rune]vmath.Vec2{
	'w': {X: 0, Y: 1},
	's': {X: 0, Y: -1},
	'a': {X: -1, Y: 0},
	'd': {X: 1, Y: 0},
}

var aimKeys = map[tcell.Key]vmath.Vec2{
	tcell.KeyUp:    {X: 0, Y: 1},
	tcell.KeyDown:  {X: 0, Y: -1},
	tcell.KeyLeft:  {X: -1, Y: 0},
	tcell.KeyRight: {X: 1, Y: 0},
}

// key applies one key press at now and reports what the host should do
func (s *inputState) key(ev *tcell.EventKey, now time.Time) action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyTab:
		return actionMode
	case tcell.KeyRune:
	default:
		if aim, ok := aimKeys[ev.Key()]; ok {
			s.controls.Aim = aim
			return actionSteer
		}
		return actionNone
	}

	r := ev.Rune()
	if dir, ok := movementKeys[r]; ok {
		s.controls.Movement = dir
		return actionSteer
	}
	switch r {
	case 'x':
		s.controls.Movement = vmath.Vec2{}
		return actionSteer
	case 'c':
		s.controls.Aim = vmath.Vec2{}
		return actionSteer
	case ' ':
		s.controls.Fire = true
		s.fireUntil = now.Add(parameter.FirePulse)
		return actionSteer
	case 'p':
		return actionPause
	case 'm':
		return actionMute
	case 'q':
		return actionQuit
	}
	return actionNone
}

// expire releases fire once its pulse has passed and reports whether controls changed
func (s *inputState) expire(now time.Time) bool {
	if !s.controls.Fire || now.Before(s.fireUntil) {
		return false
	}
	s.controls.Fire = false
	return true
}

package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/vmath"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestInputActions(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want action
	}{
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), actionQuit},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), actionQuit},
		{"q quits", runeKey('q'), actionQuit},
		{"p pauses", runeKey('p'), actionPause},
		{"m mutes", runeKey('m'), actionMute},
		{"tab cycles mode", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), actionMode},
		{"thrust steers", runeKey('w'), actionSteer},
		{"arrow steers", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), actionSteer},
		{"unbound rune", runeKey('z'), actionNone},
		{"unbound key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), actionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s inputState
			assert.Equal(t, tt.want, s.key(tt.ev, time.Unix(0, 0)))
		})
	}
}

func TestInputLatchesControls(t *testing.T) {
	var s inputState
	now := time.Unix(0, 0)

	s.key(runeKey('d'), now)
	s.key(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), now)
	assert.Equal(t, vmath.V2(1, 0), s.controls.Movement)
	assert.Equal(t, vmath.V2(0, 1), s.controls.Aim)

	// Aim keys leave movement alone
	s.key(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), now)
	assert.Equal(t, vmath.V2(1, 0), s.controls.Movement)
	assert.Equal(t, vmath.V2(0, -1), s.controls.Aim)

	s.key(runeKey('x'), now)
	s.key(runeKey('c'), now)
	assert.True(t, s.controls.Movement.X == 0 && s.controls.Movement.Y == 0)
	assert.True(t, s.controls.Aim.X == 0 && s.controls.Aim.Y == 0)
}

func TestInputFirePulse(t *testing.T) {
	var s inputState
	now := time.Unix(0, 0)

	assert.False(t, s.expire(now), "nothing to release")

	assert.Equal(t, actionSteer, s.key(runeKey(' '), now))
	assert.True(t, s.controls.Fire)

	assert.False(t, s.expire(now.Add(parameter.FirePulse/2)))
	assert.True(t, s.controls.Fire)

	assert.True(t, s.expire(now.Add(parameter.FirePulse)))
	assert.False(t, s.controls.Fire)
	assert.False(t, s.expire(now.Add(2*parameter.FirePulse)))
}

package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Cue shaping
const (
	FireCueFrequency = 880.0
	FireCueDuration  = 60 * time.Millisecond
	FireCueVolume    = 0.3

	LagAlarmFrequency = 220.0
	LagAlarmDuration  = 150 * time.Millisecond
	LagAlarmVolume    = 0.4

	// EnvelopeAttack is the linear fade-in applied to every cue
	EnvelopeAttack = 5 * time.Millisecond
	// EnvelopeRelease is the linear fade-out applied to every cue
	EnvelopeRelease = 20 * time.Millisecond

	// MinCueGap between consecutive cues of the same kind
	MinCueGap = 50 * time.Millisecond
)

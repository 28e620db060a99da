package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/metronome/parameter"
)

// FireCue is a short bright ping for a ship firing
func FireCue(rate beep.SampleRate) beep.Streamer {
	tone, err := generators.SineTone(rate, parameter.FireCueFrequency)
	if err != nil {
		// Frequency above Nyquist for this rate; fall back to our own oscillator
		tone = NewOscillator(parameter.FireCueFrequency, parameter.FireCueDuration, WaveSine, rate)
	}
	shaped := NewEnvelope(
		beep.Take(rate.N(parameter.FireCueDuration), tone),
		parameter.FireCueDuration, parameter.EnvelopeAttack, parameter.EnvelopeRelease, rate,
	)
	return newVolume(shaped, parameter.FireCueVolume)
}

// LagAlarm is a low buzz whose length grows with the number of ticks lost, up to four times the base
func LagAlarm(rate beep.SampleRate, lost uint64) beep.Streamer {
	d := parameter.LagAlarmDuration * time.Duration(min(max(lost, 1), 4))

	buzz := NewOscillator(parameter.LagAlarmFrequency, d, WaveSaw, rate)
	hiss := NewOscillator(0, d, WaveNoise, rate)
	mixed := beep.Mix(
		newVolume(buzz, 0.8),
		newVolume(hiss, 0.2),
	)
	shaped := NewEnvelope(mixed, d, parameter.EnvelopeAttack, parameter.EnvelopeRelease, rate)
	return newVolume(shaped, parameter.LagAlarmVolume)
}

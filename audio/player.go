package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/metronome/parameter"
)

// Player outputs finished streams
type Player interface {
	Play(s beep.Streamer)
	SampleRate() beep.SampleRate
}

// SpeakerPlayer mixes cues onto the system audio device
type SpeakerPlayer struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewSpeakerPlayer creates a player; Init must succeed before anything is heard
func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{
		rate:  beep.SampleRate(parameter.AudioSampleRate),
		mixer: &beep.Mixer{},
	}
}

// Init opens the audio device and starts the mixer
func (p *SpeakerPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play adds s to the mixer; dropped when the device is not open
func (p *SpeakerPlayer) Play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *SpeakerPlayer) SampleRate() beep.SampleRate {
	return p.rate
}

// Close silences the mixer and releases the device
func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, engine.PerSecond(parameter.DefaultTicksPerSecond), cfg.TickRate())
	assert.Equal(t, engine.MaxOneFramePerTick, cfg.EngineMode())
	assert.Len(t, cfg.Ships, 2)
	assert.True(t, cfg.Ships[0].Player)
}

func TestParseEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
tick:
  count: 3
  per: 1s
lag_budget: 2
mode: target_fps
target_fps: 30
physics:
  air_thickness: 0.5
ships:
  - x: 1
    y: -2
    scale: 1
    mass: 2
    moment: 3
    player: true
    aim: {p: 2, i: 0, d: 1}
metrics:
  addr: "localhost:9090"
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, engine.Rate{Count: 3, Per: time.Second}, cfg.TickRate())
	assert.Equal(t, uint64(2), cfg.LagBudget)
	assert.Equal(t, engine.TargetFramesPerSecond(engine.PerSecond(30)), cfg.EngineMode())
	assert.Equal(t, 0.5, cfg.Physics.AirThickness)
	require.Len(t, cfg.Ships, 1, "listed ships replace the defaults")
	assert.Equal(t, 2.0, cfg.Ships[0].Mass)
	require.NotNil(t, cfg.Ships[0].Aim)
	assert.Equal(t, 2.0, cfg.Ships[0].Aim.Proportional)
	assert.Equal(t, "localhost:9090", cfg.Metrics.Addr)
	// Untouched sections keep their defaults
	assert.Equal(t, parameter.DefaultRenderScale, cfg.Render.Scale)
	assert.True(t, cfg.Audio.Enabled)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "tick_rate: 5\n"},
		{"zero tick count", "tick:\n  count: 0\n"},
		{"zero tick period", "tick:\n  per: 0s\n"},
		{"bad duration", "tick:\n  per: soon\n"},
		{"zero lag budget", "lag_budget: 0\n"},
		{"unknown mode", "mode: sometimes\n"},
		{"target fps missing", "mode: target_fps\ntarget_fps: 0\n"},
		{"negative air", "physics:\n  air_thickness: -1\n"},
		{"massless ship", "ships:\n  - {scale: 1, mass: 0, moment: 1}\n"},
		{"two players", "ships:\n  - {scale: 1, mass: 1, moment: 1, player: true}\n  - {scale: 1, mass: 1, moment: 1, player: true}\n"},
		{"bad metrics addr", "metrics:\n  addr: nowhere\n"},
		{"malformed", "tick: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestModes(t *testing.T) {
	tests := []struct {
		mode string
		want engine.Mode
	}{
		{ModeMaxOneFramePerTick, engine.MaxOneFramePerTick},
		{ModeUnlimitedFrames, engine.UnlimitedFrames},
		{ModeTargetFPS, engine.TargetFramesPerSecond(engine.PerSecond(parameter.DefaultTargetFPS))},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := Default()
			cfg.Mode = tt.mode
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.want, cfg.EngineMode())
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "metronome.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lag_budget: 9\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cfg.LagBudget)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

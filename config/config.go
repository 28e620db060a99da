// Package config loads the YAML run configuration
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/physics"
)

// Frame scheduling modes
const (
	ModeMaxOneFramePerTick = "max_one_frame_per_tick"
	ModeUnlimitedFrames    = "unlimited_frames"
	ModeTargetFPS          = "target_fps"
)

// Config is the complete run configuration
type Config struct {
	Tick      TickConfig    `yaml:"tick"`
	LagBudget uint64        `yaml:"lag_budget" validate:"gte=1"`
	Mode      string        `yaml:"mode" validate:"oneof=max_one_frame_per_tick unlimited_frames target_fps"`
	TargetFPS uint64        `yaml:"target_fps" validate:"required_if=Mode target_fps"`
	Physics   PhysicsConfig `yaml:"physics"`
	Ships     []ShipConfig  `yaml:"ships" validate:"dive"`
	Render    RenderConfig  `yaml:"render"`
	Audio     AudioConfig   `yaml:"audio"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Log       LogConfig     `yaml:"log"`
}

// TickConfig is the simulation rate as Count ticks per Per
type TickConfig struct {
	Count uint64        `yaml:"count" validate:"gte=1"`
	Per   time.Duration `yaml:"per" validate:"gt=0"`
}

type PhysicsConfig struct {
	AirThickness float64 `yaml:"air_thickness" validate:"gte=0"`
}

// ShipConfig describes one entity spawned at tick zero
type ShipConfig struct {
	X               float64                `yaml:"x"`
	Y               float64                `yaml:"y"`
	Angle           float64                `yaml:"angle"`
	Scale           float64                `yaml:"scale" validate:"gt=0"`
	Mass            float64                `yaml:"mass" validate:"gt=0"`
	Moment          float64                `yaml:"moment" validate:"gt=0"`
	VelocityX       float64                `yaml:"velocity_x"`
	VelocityY       float64                `yaml:"velocity_y"`
	AngularVelocity float64                `yaml:"angular_velocity"`
	Model           string                 `yaml:"model"`
	Player          bool                   `yaml:"player"`
	Aim             *physics.PIDController `yaml:"aim"`
}

type RenderConfig struct {
	Scale float64 `yaml:"scale" validate:"gt=0"`
	// Assets is the directory searched for models before the built-in set
	Assets string `yaml:"assets"`
}

type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MetricsConfig struct {
	// Addr serves /metrics when non-empty, e.g. ":9090"
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration: one player ship and one drifting marker
func Default() *Config {
	return &Config{
		Tick:      TickConfig{Count: parameter.DefaultTicksPerSecond, Per: time.Second},
		LagBudget: parameter.DefaultLagBudget,
		Mode:      ModeMaxOneFramePerTick,
		TargetFPS: parameter.DefaultTargetFPS,
		Physics:   PhysicsConfig{AirThickness: parameter.DefaultAirThickness},
		Ships: []ShipConfig{
			{Scale: 2, Mass: 1, Moment: 1, Model: parameter.DefaultModelPath, Player: true},
			{X: -20, Y: 8, Scale: 1, Mass: 1, Moment: 1, VelocityX: 0.05, AngularVelocity: 0.02, Model: "models/marker.yaml"},
		},
		Render:  RenderConfig{Scale: parameter.DefaultRenderScale},
		Audio:   AudioConfig{Enabled: true},
		Metrics: MetricsConfig{},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the file at path; an empty path yields the defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result
// Unknown keys are rejected; a listed ships section replaces the default ships
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	players := 0
	for _, s := range c.Ships {
		if s.Player {
			players++
		}
	}
	if players > 1 {
		return fmt.Errorf("validate: %d player ships, at most one allowed", players)
	}
	return nil
}

// TickRate returns the simulation rate
func (c *Config) TickRate() engine.Rate {
	return engine.Rate{Count: c.Tick.Count, Per: c.Tick.Per}
}

// EngineMode returns the frame scheduling mode
func (c *Config) EngineMode() engine.Mode {
	switch c.Mode {
	case ModeUnlimitedFrames:
		return engine.UnlimitedFrames
	case ModeTargetFPS:
		return engine.TargetFramesPerSecond(engine.PerSecond(c.TargetFPS))
	default:
		return engine.MaxOneFramePerTick
	}
}

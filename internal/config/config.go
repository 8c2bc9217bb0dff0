package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = 5e-5
	DefaultDuration      = 1.0
	DefaultSampleEvery   = 100
	DefaultTimeLimit     = 90.0
	DefaultBalls         = 15
	DefaultMass          = 1.0
	DefaultRadius        = 0.015
	DefaultSpeed         = 80.0
	DefaultElasticity    = 1.0
	DefaultGateStep      = 0.02
	DefaultFrameRate     = 60
	DefaultStepsPerFrame = 4
)

type Config struct {
	Scenario    string      `yaml:"scenario"`
	Dt          float64     `yaml:"dt"`
	Duration    float64     `yaml:"duration"`
	Seed        int64       `yaml:"seed"`
	SampleEvery int         `yaml:"sample_every"`
	TimeLimit   float64     `yaml:"time_limit"`
	Left        demon.Group `yaml:"left"`
	Right       demon.Group `yaml:"right"`
	Walls       WallConfig  `yaml:"walls"`
	View        ViewConfig  `yaml:"view"`
}

type WallConfig struct {
	Elasticity    float64      `yaml:"elasticity"`
	GateStep      float64      `yaml:"gate_step"`
	GateMinLength float64      `yaml:"gate_min_length"`
	Layout        demon.Layout `yaml:"layout"`
}

type ViewConfig struct {
	FrameRate     int `yaml:"frame_rate"`
	StepsPerFrame int `yaml:"steps_per_frame"`
}

func defaultGroup() demon.Group {
	return demon.Group{
		Count:      DefaultBalls,
		Mass:       DefaultMass,
		Radius:     DefaultRadius,
		Speed:      DefaultSpeed,
		Elasticity: DefaultElasticity,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    "demon",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		TimeLimit:   DefaultTimeLimit,
		Left:        defaultGroup(),
		Right:       defaultGroup(),
		Walls: WallConfig{
			Elasticity:    DefaultElasticity,
			GateStep:      DefaultGateStep,
			GateMinLength: DefaultGateStep,
			Layout:        demon.DefaultLayout(),
		},
		View: ViewConfig{
			FrameRate:     DefaultFrameRate,
			StepsPerFrame: DefaultStepsPerFrame,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked without mutating the table.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if c.SampleEvery < 1 {
		return fmt.Errorf("sample_every must be at least 1, got %d: %w", c.SampleEvery, dynamo.ErrParameterBounds)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time_limit must not be negative: %w", dynamo.ErrParameterBounds)
	}
	for name, g := range map[string]demon.Group{"left": c.Left, "right": c.Right} {
		if err := validateGroup(g); err != nil {
			return fmt.Errorf("%s group: %w", name, err)
		}
	}
	if e := c.Walls.Elasticity; e < 0 || e > 1 {
		return fmt.Errorf("wall elasticity %v: %w", e, dynamo.ErrParameterBounds)
	}
	if !c.Walls.Layout.NoDivider && (c.Walls.GateStep <= 0 || c.Walls.GateMinLength < 0) {
		return fmt.Errorf("gate step %v: %w", c.Walls.GateStep, dynamo.ErrParameterBounds)
	}
	if c.View.FrameRate < 1 || c.View.StepsPerFrame < 1 {
		return fmt.Errorf("view rate %d/%d: %w", c.View.FrameRate, c.View.StepsPerFrame, dynamo.ErrParameterBounds)
	}
	return c.Walls.Layout.Validate()
}

func validateGroup(g demon.Group) error {
	switch {
	case g.Count < 0:
		return fmt.Errorf("count %d: %w", g.Count, dynamo.ErrParameterBounds)
	case g.Mass < 0:
		return fmt.Errorf("mass %v: %w", g.Mass, dynamo.ErrParameterBounds)
	case g.Radius <= 0:
		return fmt.Errorf("radius %v: %w", g.Radius, dynamo.ErrParameterBounds)
	case g.Elasticity < 0 || g.Elasticity > 1:
		return fmt.Errorf("elasticity %v: %w", g.Elasticity, dynamo.ErrParameterBounds)
	case g.Speed < 0:
		return fmt.Errorf("speed %v: %w", g.Speed, dynamo.ErrParameterBounds)
	}
	return nil
}

// GameOptions converts the file settings into game construction options.
func (c *Config) GameOptions() demon.Options {
	return demon.Options{
		Layout:         c.Walls.Layout,
		Left:           c.Left,
		Right:          c.Right,
		WallElasticity: c.Walls.Elasticity,
		GateStep:       c.Walls.GateStep,
		GateMinLength:  c.Walls.GateMinLength,
		TimeLimit:      time.Duration(c.TimeLimit * float64(time.Second)),
		MaxRetries:     demon.DefaultMaxRetries,
		Goal:           c.Scenario == "demon",
	}
}

// SimConfig returns the run settings used by the headless simulator.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

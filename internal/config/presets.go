package config

import "sort"

// Presets are named variations on DefaultConfig.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"crowded": with(func(c *Config) {
		c.Left.Count, c.Right.Count = 25, 25
		c.Left.Radius, c.Right.Radius = 0.012, 0.012
		c.Left.Speed, c.Right.Speed = 60, 60
	}),
	"slow": with(func(c *Config) {
		c.Dt = 2e-4
		c.Left.Speed, c.Right.Speed = 20, 20
		c.TimeLimit = 180
	}),
	"sticky": with(func(c *Config) {
		c.Left.Elasticity, c.Right.Elasticity = 0.8, 0.8
		c.Walls.Elasticity = 0.9
	}),
	"heavy": with(func(c *Config) {
		c.Right.Mass = 4
		c.Right.Radius = 0.025
		c.Right.Count = 8
		c.Right.Speed = 40
	}),
	"gas": with(func(c *Config) {
		c.Scenario = "gas"
		c.Walls.Layout.NoDivider = true
		c.Left.Count, c.Right.Count = 40, 0
	}),
	"headon": with(func(c *Config) {
		c.Scenario = "headon"
		c.Dt = 1e-3
		c.SampleEvery = 1
		c.Walls.Layout.NoDivider = true
	}),
}

func with(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package main

import (
	"testing"

	"github.com/san-kum/demonsim/internal/config"
)

func resolveFor(t *testing.T, args ...string) *config.Config {
	t.Helper()
	cmd, rest, err := newRootCmd().Find(args)
	if err != nil {
		t.Fatalf("find %v: %v", args, err)
	}
	if err := cmd.ParseFlags(rest); err != nil {
		t.Fatalf("parse %v: %v", rest, err)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve %v: %v", args, err)
	}
	return cfg
}

func TestResolveConfigCommandDuration(t *testing.T) {
	tests := []struct {
		args []string
		want float64
	}{
		{[]string{"run"}, config.DefaultDuration},
		{[]string{"bench"}, 0.1},
		{[]string{"sweep"}, 0.05},
		{[]string{"snapshot"}, 0.5},
		{[]string{"bench", "--time", "0.2"}, 0.2},
		{[]string{"snapshot", "--preset", "headon"}, config.DefaultDuration},
	}

	for _, tt := range tests {
		cfg := resolveFor(t, tt.args...)
		if cfg.Duration != tt.want {
			t.Errorf("%v: duration = %v, want %v", tt.args, cfg.Duration, tt.want)
		}
	}
}

func TestResolveConfigFlagsOverridePreset(t *testing.T) {
	cfg := resolveFor(t, "run", "--preset", "headon", "--dt", "0.002", "--seed", "7")

	if cfg.Scenario != "headon" {
		t.Errorf("scenario = %q", cfg.Scenario)
	}
	if cfg.Dt != 0.002 || cfg.Seed != 7 {
		t.Errorf("dt %v seed %v", cfg.Dt, cfg.Seed)
	}
}

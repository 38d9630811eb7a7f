package coresim

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYaml = `
numCores: 2
ticks: 100
tickLen: 0.5
seed: 42
arrivalsPerTick: 0.8
blockDuration: 1.5
classes:
  - name: fast
    fraction: 0.7
    priority: 1
    minCycles: 1
    maxCycles: 2
    minCycleTime: 0.1
    maxCycleTime: 0.5
  - name: slow
    fraction: 0.3
    priority: 4
    minCycles: 3
    maxCycles: 8
    minCycleTime: 1.0
    maxCycleTime: 2.0
    blockDuration: 3.0
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTestConfig(t, testConfigYaml))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.NumCores != 2 || cfg.Ticks != 100 || cfg.TickLen != 0.5 {
		t.Errorf("run fields wrong: %+v", cfg)
	}
	if seed, err := cfg.seedOption().Get(); err != nil || seed != 42 {
		t.Errorf("expected seed 42 present, got %v %v", seed, err)
	}
	if len(cfg.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(cfg.Classes))
	}
	if cfg.Classes[0].blockOverride().Present() {
		t.Errorf("class fast should have no block override")
	}
	if d, err := cfg.Classes[1].blockOverride().Get(); err != nil || d != 3.0 {
		t.Errorf("class slow: expected block override 3.0, got %v %v", d, err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if DefaultConfig().seedOption().Present() {
		t.Errorf("default config should not pin a seed")
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	base := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(*SimConfig)
	}{
		{"zero cores", func(c *SimConfig) { c.NumCores = 0 }},
		{"negative cores", func(c *SimConfig) { c.NumCores = -3 }},
		{"zero tick len", func(c *SimConfig) { c.TickLen = 0 }},
		{"negative tick len", func(c *SimConfig) { c.TickLen = -0.1 }},
		{"negative arrivals", func(c *SimConfig) { c.ArrivalsPerTick = -1 }},
		{"negative block duration", func(c *SimConfig) { c.BlockDuration = -2 }},
		{"no classes", func(c *SimConfig) { c.Classes = nil }},
		{"zero min cycles", func(c *SimConfig) { c.Classes[0].MinCycles = 0 }},
		{"max below min cycles", func(c *SimConfig) { c.Classes[0].MaxCycles = 0 }},
		{"zero cycle time", func(c *SimConfig) { c.Classes[0].MinCycleTime = 0 }},
		{"max below min cycle time", func(c *SimConfig) { c.Classes[0].MaxCycleTime = 0.01 }},
		{"fractions off", func(c *SimConfig) { c.Classes[0].Fraction = 0.9 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Classes = append([]ClassConfig(nil), base.Classes...)
			tc.mutate(&cfg)
			if err := cfg.validate(); err == nil {
				t.Errorf("validate accepted %s", tc.name)
			}
		})
	}
}

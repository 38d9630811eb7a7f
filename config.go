package coresim

import (
	"fmt"
	"math"
	"os"

	"github.com/markphelps/optional"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_NUM_CORES         = 4
	DEFAULT_TICKS             = 500
	DEFAULT_TICK_LEN          = 0.1 // tick = 100 ms
	DEFAULT_ARRIVALS_PER_TICK = 1.5

	FRACTION_SUM_TOLERANCE = 0.001
)

// ClassConfig describes one class of generated procs. BlockDuration is
// optional: absent means the run-level default applies
type ClassConfig struct {
	Name          string   `yaml:"name"`
	Fraction      float64  `yaml:"fraction"`
	Priority      int      `yaml:"priority"`
	MinCycles     int      `yaml:"minCycles"`
	MaxCycles     int      `yaml:"maxCycles"`
	MinCycleTime  float64  `yaml:"minCycleTime"`
	MaxCycleTime  float64  `yaml:"maxCycleTime"`
	BlockDuration *float64 `yaml:"blockDuration,omitempty"`
}

func (cc ClassConfig) blockOverride() optional.Float64 {
	if cc.BlockDuration == nil {
		return optional.Float64{}
	}
	return optional.NewFloat64(*cc.BlockDuration)
}

// SimConfig is the whole run configuration. the kernel itself takes only
// NumCores; the rest drives the world and the load generator
type SimConfig struct {
	NumCores        int           `yaml:"numCores"`
	Ticks           int           `yaml:"ticks"`
	TickLen         float64       `yaml:"tickLen"`
	Seed            *int64        `yaml:"seed,omitempty"`
	ArrivalsPerTick float64       `yaml:"arrivalsPerTick"`
	BlockDuration   float64       `yaml:"blockDuration"`
	Classes         []ClassConfig `yaml:"classes"`
}

// absent means "derive a seed from the clock"
func (cfg SimConfig) seedOption() optional.Int64 {
	if cfg.Seed == nil {
		return optional.Int64{}
	}
	return optional.NewInt64(*cfg.Seed)
}

// DefaultConfig is a small interactive-heavy mix, usable without any file
func DefaultConfig() SimConfig {
	return SimConfig{
		NumCores:        DEFAULT_NUM_CORES,
		Ticks:           DEFAULT_TICKS,
		TickLen:         DEFAULT_TICK_LEN,
		ArrivalsPerTick: DEFAULT_ARRIVALS_PER_TICK,
		BlockDuration:   float64(DEFAULT_BLOCK_DURATION),
		Classes: []ClassConfig{
			{Name: "interactive", Fraction: 0.55, Priority: 1, MinCycles: 1, MaxCycles: 3, MinCycleTime: 0.2, MaxCycleTime: 1.0},
			{Name: "io heavy", Fraction: 0.1, Priority: 2, MinCycles: 4, MaxCycles: 10, MinCycleTime: 0.2, MaxCycleTime: 0.8, BlockDuration: float64Ptr(4.0)},
			{Name: "batch", Fraction: 0.3, Priority: 3, MinCycles: 2, MaxCycles: 6, MinCycleTime: 1.0, MaxCycleTime: 4.0},
			{Name: "background", Fraction: 0.05, Priority: 5, MinCycles: 5, MaxCycles: 20, MinCycleTime: 2.0, MaxCycleTime: 8.0},
		},
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}

func LoadConfig(path string) (SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SimConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg SimConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SimConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return SimConfig{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// malformed values are rejected here, at construction time, so the kernel
// can stay permissive
func (cfg SimConfig) validate() error {
	if cfg.NumCores < 1 {
		return fmt.Errorf("numCores must be positive, got %d", cfg.NumCores)
	}
	if cfg.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", cfg.Ticks)
	}
	if cfg.TickLen <= 0 {
		return fmt.Errorf("tickLen must be positive, got %v", cfg.TickLen)
	}
	if cfg.ArrivalsPerTick < 0 {
		return fmt.Errorf("arrivalsPerTick must not be negative, got %v", cfg.ArrivalsPerTick)
	}
	if cfg.BlockDuration < 0 {
		return fmt.Errorf("blockDuration must not be negative, got %v", cfg.BlockDuration)
	}
	if len(cfg.Classes) == 0 {
		return fmt.Errorf("at least one proc class is required")
	}
	fractionSum := 0.0
	for _, cl := range cfg.Classes {
		if cl.Fraction < 0 || cl.Fraction > 1 {
			return fmt.Errorf("class %q: fraction must be in [0,1], got %v", cl.Name, cl.Fraction)
		}
		if cl.MinCycles < 1 {
			return fmt.Errorf("class %q: minCycles must be at least 1, got %d", cl.Name, cl.MinCycles)
		}
		if cl.MaxCycles < cl.MinCycles {
			return fmt.Errorf("class %q: maxCycles %d below minCycles %d", cl.Name, cl.MaxCycles, cl.MinCycles)
		}
		if cl.MinCycleTime <= 0 {
			return fmt.Errorf("class %q: minCycleTime must be positive, got %v", cl.Name, cl.MinCycleTime)
		}
		if cl.MaxCycleTime < cl.MinCycleTime {
			return fmt.Errorf("class %q: maxCycleTime %v below minCycleTime %v", cl.Name, cl.MaxCycleTime, cl.MinCycleTime)
		}
		if cl.BlockDuration != nil && *cl.BlockDuration < 0 {
			return fmt.Errorf("class %q: blockDuration must not be negative, got %v", cl.Name, *cl.BlockDuration)
		}
		fractionSum += cl.Fraction
	}
	if math.Abs(fractionSum-1.0) > FRACTION_SUM_TOLERANCE {
		return fmt.Errorf("class fractions must sum to 1, got %v", fractionSum)
	}
	return nil
}

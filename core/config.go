package core

import (
	"os"
	"strconv"
)

// Config tunes an Engine. Zero fields are replaced by ApplyDefaults.
type Config struct {
	// Resolution is the edge length of a grid cell in plan units.
	Resolution float64

	// MaxCells caps cols × rows per run. The rasterizers are
	// O(cells × sensors × walls), so callers must bound resolution.
	MaxCells int

	// ObstructionPenalty scales camera coverage when any wall blocks the
	// line of sight.
	ObstructionPenalty float64

	// ClusterThreshold is the dead-zone clustering distance in plan units.
	ClusterThreshold float64

	// MinClusterSize is the cell count a dead-zone cluster must exceed to
	// raise a coverage_gap recommendation.
	MinClusterSize int
}

const (
	DefaultResolution         = 1.0
	DefaultMaxCells           = 1_000_000
	DefaultObstructionPenalty = 0.5
	DefaultClusterThreshold   = 5.0
	DefaultMinClusterSize     = 10
)

// DefaultConfig returns a Config populated with the default tuning.
func DefaultConfig() Config {
	return Config{
		Resolution:         DefaultResolution,
		MaxCells:           DefaultMaxCells,
		ObstructionPenalty: DefaultObstructionPenalty,
		ClusterThreshold:   DefaultClusterThreshold,
		MinClusterSize:     DefaultMinClusterSize,
	}
}

// ApplyDefaults fills zero or invalid tuning fields with defaults. Only a
// zero Resolution is defaulted; any other invalid value is kept so analyses
// fail with ErrInvalidResolution.
func (c Config) ApplyDefaults() Config {
	if c.Resolution == 0 {
		c.Resolution = DefaultResolution
	}
	if c.MaxCells <= 0 {
		c.MaxCells = DefaultMaxCells
	}
	if c.ObstructionPenalty <= 0 || c.ObstructionPenalty > 1 {
		c.ObstructionPenalty = DefaultObstructionPenalty
	}
	if c.ClusterThreshold <= 0 {
		c.ClusterThreshold = DefaultClusterThreshold
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = DefaultMinClusterSize
	}
	return c
}

// ConfigFromEnv overlays PLANNER_RESOLUTION and PLANNER_MAX_CELLS on the
// defaults. Unparseable or non-positive values are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if raw := os.Getenv("PLANNER_RESOLUTION"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			cfg.Resolution = v
		}
	}
	if raw := os.Getenv("PLANNER_MAX_CELLS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.MaxCells = v
		}
	}
	return cfg
}

package config

import (
	"fmt"

	"github.com/kilianp07/citytraffic/core/forest"
	"github.com/kilianp07/citytraffic/core/training"
)

// ModelConfig locates the trained artifact.
type ModelConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies fallback values for optional fields.
func (c *ModelConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "ml_models/traffic_model.json.gz"
	}
}

// Validate checks mandatory fields.
func (c ModelConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// Default tree depth per source when max_depth is not configured. Synthetic
// data is bounded, CSV data grows trees until leaves are pure.
const (
	DefaultSyntheticMaxDepth = 10
	DefaultCSVMaxDepth       = 0
)

// TrainingConfig configures the train command.
type TrainingConfig struct {
	// Source is "synthetic" or "csv".
	Source         string  `json:"source"`
	CSVPath        string  `json:"csv_path"`
	NEstimators    int     `json:"n_estimators"`
	MaxDepth       *int    `json:"max_depth"`
	MinSamplesLeaf int     `json:"min_samples_leaf"`
	Seed           uint64  `json:"seed"`
	TestFraction   float64 `json:"test_fraction"`
	SplitSeed      uint64  `json:"split_seed"`
}

// SetDefaults applies fallback values for optional fields.
func (c *TrainingConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = string(training.ModeSynthetic)
	}
	if c.CSVPath == "" {
		c.CSVPath = "traffic_smart_city.csv"
	}
	if c.NEstimators <= 0 {
		c.NEstimators = 100
	}
	if c.MinSamplesLeaf <= 0 {
		c.MinSamplesLeaf = 1
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.SplitSeed == 0 {
		c.SplitSeed = 42
	}
}

// Validate checks the configuration ranges.
func (c TrainingConfig) Validate() error {
	switch training.Mode(c.Source) {
	case training.ModeSynthetic, training.ModeCSV:
	default:
		return fmt.Errorf("unknown source %s", c.Source)
	}
	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0,1)")
	}
	return nil
}

// Options returns the trainer options for the configured source.
func (c TrainingConfig) Options() training.Options {
	depth := DefaultSyntheticMaxDepth
	if training.Mode(c.Source) == training.ModeCSV {
		depth = DefaultCSVMaxDepth
	}
	if c.MaxDepth != nil {
		depth = *c.MaxDepth
	}
	return training.Options{
		Forest: forest.Options{
			NEstimators:    c.NEstimators,
			MaxDepth:       depth,
			MinSamplesLeaf: c.MinSamplesLeaf,
			Seed:           c.Seed,
		},
		TestFraction: c.TestFraction,
		SplitSeed:    c.SplitSeed,
	}
}

package config

import (
	_ "embed"
)

//go:embed defaults/sweep.yaml
var defaultSweepYAML []byte

// DefaultSweepConfig returns the built-in configuration: 4x4 grid, match
// five, three badge tiers.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Grid: GridConfig{
			Rows:   4,
			Cols:   4,
			Picker: "uniform",
			Weights: map[string]int{
				"program": 4,
				"user":    3,
				"clue":    2,
				"flynn":   1,
			},
		},
		Rewards: map[string]int{
			"program": 100,
			"user":    200,
			"clue":    500,
			"flynn":   1000,
		},
		MatchThreshold:  5,
		SweepCost:       1000,
		StartingBalance: 2000,
		BadgeScope:      BadgeScopeSession,
		Tiers: []TierConfig{
			{Badge: "double", Multiplier: 2, Min: 10, Max: 15},
			{Badge: "triple", Multiplier: 3, Min: 15, Max: 20},
			{Badge: "mega", Multiplier: 4, Min: 20, Max: 0},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultSweepYAML
}

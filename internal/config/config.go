// Package config provides YAML-based game configuration loading and
// validation for Tron Sweep.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/payout"
	"github.com/vovakirdan/tron-sweep/internal/registry"
)

// BadgeScope selects whether badge counters survive a next game.
type BadgeScope string

const (
	BadgeScopeSession BadgeScope = "session"
	BadgeScopeRound   BadgeScope = "round"
)

// SweepConfig contains all configuration for a sweep session.
// It is fixed at startup.
type SweepConfig struct {
	Grid            GridConfig     `yaml:"grid"`
	Rewards         map[string]int `yaml:"rewards"`
	MatchThreshold  int            `yaml:"match_threshold"`
	SweepCost       int            `yaml:"sweep_cost"`
	StartingBalance int            `yaml:"starting_balance"`
	BadgeScope      BadgeScope     `yaml:"badge_scope"`
	Tiers           []TierConfig   `yaml:"tiers"`
}

// GridConfig defines grid dimensions and how cell types are drawn.
type GridConfig struct {
	Rows    int            `yaml:"rows"`
	Cols    int            `yaml:"cols"`
	Picker  string         `yaml:"picker"`
	Weights map[string]int `yaml:"weights"`
}

// TierConfig is one badge tier. Max 0 means unbounded.
type TierConfig struct {
	Badge      string `yaml:"badge"`
	Multiplier int    `yaml:"multiplier"`
	Min        int    `yaml:"min"`
	Max        int    `yaml:"max"`
}

// BadgeScopeIsSession reports whether badge counters persist across rounds.
func (c SweepConfig) BadgeScopeIsSession() bool {
	return c.BadgeScope != BadgeScopeRound
}

// Schedule converts the reward table and tiers into a payout.Schedule.
func (c SweepConfig) Schedule() (payout.Schedule, error) {
	rewards, err := parseTypeMap(c.Rewards)
	if err != nil {
		return payout.Schedule{}, fmt.Errorf("config: rewards: %w", err)
	}

	tiers := make([]payout.Tier, len(c.Tiers))
	for i, t := range c.Tiers {
		tiers[i] = payout.Tier{
			Badge:      payout.BadgeKind(t.Badge),
			Multiplier: t.Multiplier,
			Min:        t.Min,
			Max:        t.Max,
		}
	}
	return payout.Schedule{Rewards: rewards, Tiers: tiers}, nil
}

// Weights returns the picker weights keyed by cell type.
func (c SweepConfig) Weights() (map[board.CellType]int, error) {
	w, err := parseTypeMap(c.Grid.Weights)
	if err != nil {
		return nil, fmt.Errorf("config: grid.weights: %w", err)
	}
	return w, nil
}

// Picker builds the configured cell type picker.
func (c SweepConfig) Picker() (board.TypePicker, error) {
	weights, err := c.Weights()
	if err != nil {
		return nil, err
	}
	name := c.Grid.Picker
	if name == "" {
		name = registry.DefaultPicker
	}
	return registry.Create(name, weights)
}

// Validate checks the configuration. All problems are reported together.
func (c SweepConfig) Validate() error {
	var errs []error

	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		errs = append(errs, fmt.Errorf("config: grid must be at least 1x1, got %dx%d", c.Grid.Rows, c.Grid.Cols))
	}
	if c.Grid.Picker != "" && !registry.Exists(c.Grid.Picker) {
		errs = append(errs, fmt.Errorf("config: unknown picker %q", c.Grid.Picker))
	}
	if _, err := c.Weights(); err != nil {
		errs = append(errs, err)
	}
	if c.MatchThreshold < 1 {
		errs = append(errs, fmt.Errorf("config: match_threshold must be >= 1, got %d", c.MatchThreshold))
	}
	if c.SweepCost <= 0 {
		errs = append(errs, fmt.Errorf("config: sweep_cost must be positive, got %d", c.SweepCost))
	}
	if c.StartingBalance < 0 {
		errs = append(errs, fmt.Errorf("config: starting_balance must not be negative, got %d", c.StartingBalance))
	}
	switch c.BadgeScope {
	case "", BadgeScopeSession, BadgeScopeRound:
	default:
		errs = append(errs, fmt.Errorf("config: badge_scope must be %q or %q, got %q",
			BadgeScopeSession, BadgeScopeRound, c.BadgeScope))
	}

	sched, err := c.Schedule()
	if err != nil {
		errs = append(errs, err)
	} else if err := sched.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func parseTypeMap(in map[string]int) (map[board.CellType]int, error) {
	out := make(map[board.CellType]int, len(in))
	for name, v := range in {
		t, err := board.ParseCellType(name)
		if err != nil {
			return nil, err
		}
		out[t] = v
	}
	return out, nil
}

// GridOptions builds board options for the configured grid. A zero seed
// seeds from the clock.
func (c SweepConfig) GridOptions(seed int64) (board.Options, error) {
	picker, err := c.Picker()
	if err != nil {
		return board.Options{}, err
	}
	values, err := parseTypeMap(c.Rewards)
	if err != nil {
		return board.Options{}, fmt.Errorf("config: rewards: %w", err)
	}
	return board.Options{
		Rows:   c.Grid.Rows,
		Cols:   c.Grid.Cols,
		Picker: picker,
		Values: values,
		Seed:   seed,
	}, nil
}

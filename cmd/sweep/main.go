// sweep is a terminal grid-reveal match game.
//
// Usage:
//
//	sweep play               - Play a session in the terminal
//	sweep serve              - Start SSH server for remote play
//	sweep history            - Show played rounds and statistics
//	sweep pickers            - List cell type pickers
//	sweep config             - Print the effective game configuration
//
// Global flags:
//
//	--config <path>    - Game configuration YAML
//	--seed <value>     - Set RNG seed for reproducible grids
//	--db <path>        - Set database path (default: ~/.tron-sweep/history.db)
//	--fps <rate>       - Animation frame rate (default: 30)
//	--log-file <path>  - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tron-sweep/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Tron Sweep - reveal the grid, match the programs",
	Long: `Tron Sweep is a terminal grid-reveal game. Each sweep costs a fixed
amount and uncovers every cell of the grid. Five or more cells of one kind
pay out that kind's value, and large matches multiply it and earn badges.

Available commands:
  play     - Play a session in the terminal
  serve    - Start SSH server for remote play
  history  - Show played rounds and statistics
  pickers  - List cell type pickers
  config   - Print the effective game configuration

Examples:
  sweep play
  sweep play --seed 42 --config ./my-sweep.yaml
  sweep serve --ssh :2222
  sweep history --limit 20`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Animation frame rate")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tron-sweep/history.db", "Path to round history database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pickersCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads and validates the game configuration, warning about
// overlapping badge tiers.
func loadConfig(logger *log.Logger) (config.SweepConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.SweepConfig{}, err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return config.SweepConfig{}, err
	}
	for _, o := range sched.Overlaps() {
		logger.Warn("badge tiers overlap, the first listed wins",
			"first", sched.Tiers[o.First].Badge, "second", sched.Tiers[o.Second].Badge)
	}
	return cfg, nil
}

// newLogger returns a logger writing to --log-file, or to fallback when no
// file is set. The returned closer releases the file.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func(), error) {
	w, closer := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

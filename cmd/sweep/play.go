package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tron-sweep/internal/platform/tui"
	"github.com/vovakirdan/tron-sweep/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session",
	Long: `Start a session in the terminal.

Controls:
  Space/S    - Sweep (again while sweeping: reveal the rest at once)
  P          - Pause / resume
  N/Enter    - Next game (from the round summary)
  R          - Restart the session
  H          - Round history
  Q/Ctrl+C   - Quit

Examples:
  sweep play
  sweep play --seed 42
  sweep play --config ./my-sweep.yaml --log-file sweep.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	// Logs would corrupt the alt screen, so without --log-file they are dropped.
	logger, closeLog, err := newLogger(io.Discard, "sweep")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		logger.Warn("history disabled", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := tui.GameOptions{
		Config: cfg,
		Runtime: tui.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Timings: tui.DefaultTimings(),
		Logger:  logger,
	}

	if err := tui.Run(ctx, store, opts); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

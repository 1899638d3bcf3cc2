package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/platform/tui"
)

var flagMode string

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Play a hotseat match on one keyboard",
	Long: `Start a two-player match on this terminal.

Controls:
  W/S        - Left paddle up/down
  Space      - Left player ready
  Up/Down    - Right paddle up/down
  Enter      - Right player ready
  R          - Rematch (after game over)
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Input modes:
  hold       - A key press holds the paddle direction briefly
  momentum   - Taps build up speed that bleeds off with friction

Examples:
  pong local
  pong local --mode momentum
  pong local --seed 42`,
	Run: runLocal,
}

func init() {
	localCmd.Flags().StringVar(&flagMode, "mode", "", "Input mode: hold or momentum (default from config)")
}

func runLocal(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	if flagMode != "" {
		cfg.Input.Mode = flagMode
	}

	mode, err := input.ParseMode(cfg.Input.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	game, err := cfg.Game.Pong()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w, h := terminalSize()
	err = tui.RunLocal(game, tui.LocalOptions{
		Mode:      mode,
		HoldTicks: cfg.Input.HoldTicks,
		Width:     w,
		Height:    h,
		Logger:    newLogger(cfg, "local", true),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

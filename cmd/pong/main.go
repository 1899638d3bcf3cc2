// pong is a two-player terminal Pong whose online mode keeps both machines
// in deterministic lockstep.
//
// Usage:
//
//	pong local              - Two players on one keyboard
//	pong host               - Host an online match over WebSocket
//	pong join <url>         - Join a hosted match
//	pong serve              - Serve hotseat matches over SSH
//	pong sim                - Run two bots over an in-memory link
//	pong config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.pong/configs, ./configs)
//	--seed <value>      - Override the match seed
//	--tick-hz <rate>    - Override the simulation rate
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Write logs here while a TUI owns the terminal
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lockstep-pong/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     uint64
	flagTickHz   uint32
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pong",
	Short: "Lockstep Pong - two-player Pong in your terminal",
	Long: `Lockstep Pong is a two-player Pong for the terminal. Online matches run
the same fixed-point simulation on both machines and only exchange inputs,
so both players always see the same game.

Available commands:
  local    - Two players on one keyboard
  host     - Host an online match
  join     - Join a hosted match
  serve    - Start SSH server for hotseat play
  sim      - Run a headless bot match
  config   - Print the effective configuration

Examples:
  pong local
  pong host --listen :7777
  pong join ws://192.168.1.10:7777/ws
  pong sim --ticks 3600 --latency 40ms`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Match seed (0 = from config)")
	rootCmd.PersistentFlags().Uint32Var(&flagTickHz, "tick-hz", 0, "Simulation rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the TUI is running")

	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the config file, the environment and the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadWithEnv(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	if flagTickHz != 0 {
		cfg.Game.TickHz = flagTickHz
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// mustLoadConfig is loadConfig for command handlers.
func mustLoadConfig() config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds a logger at the configured level. interactive loggers
// go to --log-file, or nowhere, so they do not draw over the TUI.
func newLogger(cfg config.Config, prefix string, interactive bool) *log.Logger {
	var w io.Writer = os.Stderr
	if interactive {
		w = io.Discard
		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
			} else {
				w = f
			}
		}
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

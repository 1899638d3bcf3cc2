package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport/ws"
)

var flagJoinHeadless bool

var joinCmd = &cobra.Command{
	Use:   "join <url>",
	Short: "Join a hosted match",
	Long: `Connect to a host and play the right paddle.

Examples:
  pong join ws://192.168.1.10:7777/ws
  pong join ws://localhost:7777/ws --headless`,
	Args: cobra.ExactArgs(1),
	Run:  runJoin,
}

func init() {
	joinCmd.Flags().BoolVar(&flagJoinHeadless, "headless", false, "Play with a bot and no TUI")
}

func runJoin(_ *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg, "join", !flagJoinHeadless)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Net.DialTimeout)
	conn, err := ws.Dial(dialCtx, args[0], ws.Options{
		HandshakeTimeout: cfg.Net.DialTimeout,
		ReadTimeout:      cfg.Net.ReadTimeout,
		Logger:           logger,
	})
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	peer, err := newPeer(conn, cfg, pong.Right, flagJoinHeadless, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, err := playPeer(ctx, peer, cfg.Game.TickHz, flagJoinHeadless)
	printResult(res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

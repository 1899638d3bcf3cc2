package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/multiplayer"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport"
)

var (
	flagSimTicks   uint32
	flagSimLatency time.Duration
	flagSimFast    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless bot match over an in-memory link",
	Long: `Play two bots against each other through the full lockstep protocol
over an in-memory link with optional one-way latency, then check that both
sides ended in the same state.

Examples:
  pong sim                          # Play until someone wins
  pong sim --ticks 3600             # Stop after one minute of game time
  pong sim --latency 50ms           # Add 50ms one-way delay
  pong sim --fast                   # Do not pace ticks to wall time`,
	Run: runSim,
}

func init() {
	simCmd.Flags().Uint32Var(&flagSimTicks, "ticks", 0, "Stop after this many ticks (0 = until game over)")
	simCmd.Flags().DurationVar(&flagSimLatency, "latency", 0, "One-way link latency")
	simCmd.Flags().BoolVar(&flagSimFast, "fast", false, "Run ticks back to back instead of at tick rate")
}

func runSim(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg, "sim", false)

	game, err := cfg.Game.Pong()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := transport.Pipe(transport.WithLatency(flagSimLatency))
	ends := [2]transport.Transport{a, b}

	var interval time.Duration
	if flagSimFast {
		interval = 100 * time.Microsecond
	}

	var peers [2]*multiplayer.Peer
	for _, side := range []pong.Side{pong.Left, pong.Right} {
		p, err := multiplayer.NewPeer(ends[side.Index()], multiplayer.PeerConfig{
			Side:           side,
			Timekeeper:     side == pong.Left,
			Game:           game,
			Source:         input.NewTracker(side, cfg.BotSkill()),
			BufferCapacity: cfg.Net.BufferCapacity,
			PingInterval:   cfg.Net.PingIntervalTicks,
			TickInterval:   interval,
			StopOnGameOver: flagSimTicks == 0,
			StopAtTick:     flagSimTicks,
			Logger:         logger.With("side", side),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		peers[side.Index()] = p
	}

	start := time.Now()
	var results [2]multiplayer.MatchResult
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range peers {
		g.Go(func() error {
			var err error
			results[i], err = p.Run(gctx)
			return err
		})
	}
	err = g.Wait()
	_ = a.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	left, right := peers[0].View(), peers[1].View()
	fmt.Printf("seed %#x, %d Hz, latency %s, took %s\n", game.Seed, game.TickHz, flagSimLatency, time.Since(start).Round(time.Millisecond))
	for i, res := range results {
		fmt.Printf("%-5s ", pong.Side(i))
		printResult(res)
	}

	stats := peers[1].Stats()
	fmt.Printf("guest: %d snapshots, last RTT %s\n", stats.Snapshots, stats.RTT)

	if left != right {
		fmt.Fprintf(os.Stderr, "DESYNC: left %+v\nright %+v\n", left, right)
		os.Exit(2)
	}
	fmt.Println("in sync")
}

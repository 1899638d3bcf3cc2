package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/lockstep-pong/internal/config"
	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/multiplayer"
	"github.com/vovakirdan/lockstep-pong/internal/platform/tui"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport"
)

// newPeer builds the peer for one side of an online match. Headless peers
// are driven by a Tracker and stop at game over.
func newPeer(tr transport.Transport, cfg config.Config, side pong.Side, headless bool, logger *log.Logger) (*multiplayer.Peer, error) {
	game, err := cfg.Game.Pong()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.InputMode()
	if err != nil {
		return nil, err
	}

	pc := multiplayer.PeerConfig{
		Side:           side,
		Timekeeper:     side == pong.Left,
		Game:           game,
		InputMode:      mode,
		HoldTicks:      cfg.Input.HoldTicks,
		BufferCapacity: cfg.Net.BufferCapacity,
		PingInterval:   cfg.Net.PingIntervalTicks,
		Logger:         logger,
	}
	if headless {
		pc.Source = input.NewTracker(side, cfg.BotSkill())
		pc.StopOnGameOver = true
	}
	return multiplayer.NewPeer(tr, pc)
}

// playPeer runs peer until the match ends. Interactive matches show the
// online TUI next to the match loop; quitting the TUI cancels the match.
func playPeer(ctx context.Context, peer *multiplayer.Peer, tickHz uint32, headless bool) (multiplayer.MatchResult, error) {
	if headless {
		return peer.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var res multiplayer.MatchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = peer.Run(gctx)
		return err
	})
	g.Go(func() error {
		defer cancel()
		w, h := terminalSize()
		return tui.RunOnline(peer, cancel, tickHz, w, h)
	})
	err := g.Wait()
	return res, err
}

// printResult writes a one-line match summary.
func printResult(res multiplayer.MatchResult) {
	line := fmt.Sprintf("%s after %d ticks, score %d - %d", res.Reason, res.Ticks, res.Score[0], res.Score[1])
	if res.HasWinner {
		line += fmt.Sprintf(", %s wins", res.Winner)
	}
	fmt.Println(line)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/lockstep-pong/internal/multiplayer"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport/ws"
)

var (
	flagListen       string
	flagHostHeadless bool
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host an online match",
	Long: `Listen for one opponent and play the left paddle. The host keeps time
for the match: it sends the initial state, answers resync requests and
starts rematches.

Endpoints:
  GET /ws       - WebSocket the opponent joins
  GET /status   - JSON match status

Examples:
  pong host                     # Listen on the configured address
  pong host --listen :9000
  pong host --headless          # Let a bot play the left paddle`,
	Run: runHost,
}

func init() {
	hostCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from config)")
	hostCmd.Flags().BoolVar(&flagHostHeadless, "headless", false, "Play with a bot and no TUI")
}

func runHost(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	if flagListen != "" {
		cfg.Net.Listen = flagListen
	}
	logger := newLogger(cfg, "host", !flagHostHeadless)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	acc := ws.NewAcceptor(ws.Options{
		HandshakeTimeout: cfg.Net.DialTimeout,
		ReadTimeout:      cfg.Net.ReadTimeout,
		Logger:           logger,
	})

	var current atomic.Pointer[multiplayer.Peer]
	status := func() ws.Status {
		st := ws.Status{Service: "lockstep-pong", State: pong.StatusText(pong.Lobby())}
		if peer := current.Load(); peer != nil {
			s := peer.Stats()
			v := peer.View()
			st.SessionID = string(peer.ID())
			st.Tick = s.Tick
			st.State = pong.StatusText(v.Status)
			st.Score = [2]int{int(v.Score[0]), int(v.Score[1])}
		}
		return st
	}
	srv := &http.Server{
		Addr:              cfg.Net.Listen,
		Handler:           ws.NewRouter(acc, status),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Hosting on %s, waiting for an opponent at ws://<host>%s/ws\n", cfg.Net.Listen, cfg.Net.Listen)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		conn, err := acc.Accept(gctx)
		if err != nil {
			return nil
		}
		defer func() { _ = conn.Close() }()
		logger.Info("opponent joined", "remote", conn.RemoteAddr())

		peer, err := newPeer(conn, cfg, pong.Left, flagHostHeadless, logger)
		if err != nil {
			return err
		}
		current.Store(peer)

		res, err := playPeer(gctx, peer, cfg.Game.TickHz, flagHostHeadless)
		printResult(res)
		return err
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

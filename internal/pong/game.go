// Package pong implements the deterministic two-player Pong simulation.
// All state is fixed-point and the serve RNG lives inside the game, so two
// instances fed the same inputs stay bit-identical on any platform.
package pong

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
)

// ErrTickMismatch is returned by Step when the input pair is for another tick.
var ErrTickMismatch = errors.New("pong: input tick mismatch")

// Game owns the simulation state for one match.
type Game struct {
	config  Config
	tick    Tick
	status  Status
	paddles [2]Paddle
	ball    Ball
	score   [2]uint8
	rng     uint64

	// configErr is the Validate result for config; Step refuses to run on it.
	configErr error
}

// New creates a game in the Lobby with the first serve (Left) already set up.
// Constructing a game advances the RNG once. An invalid cfg still yields a
// game, but every Step on it fails with the Validate error.
func New(cfg Config) *Game {
	g := &Game{config: cfg, configErr: cfg.Validate()}
	g.ResetMatch()
	return g
}

// Step advances the simulation by one tick. It returns a non-nil Event only
// on the tick a point is scored. A pair for any tick other than CurrentTick
// is rejected without changing state.
func (g *Game) Step(in InputPair) (Event, error) {
	if g.configErr != nil {
		return nil, g.configErr
	}
	if in.Tick != g.tick {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrTickMismatch, in.Tick, g.tick)
	}

	var evt Event

	switch g.status.Kind {
	case StatusLobby:
		if in.A.IsReady() && in.B.IsReady() {
			g.status = Countdown(CountdownTicks)
		}

	case StatusCountdown:
		// No physics; the ball waits where the last serve put it.
		if g.status.Ticks <= 1 {
			g.status = Playing()
		} else {
			g.status = Countdown(g.status.Ticks - 1)
		}

	case StatusPlaying:
		evt = g.stepPlaying(in)

	case StatusScored:
		scorer := g.status.Side
		if g.status.Ticks > 1 {
			g.status = Scored(scorer, g.status.Ticks-1)
			break
		}
		switch {
		case g.score[Left] >= g.config.MaxScore:
			g.status = GameOver(Left)
		case g.score[Right] >= g.config.MaxScore:
			g.status = GameOver(Right)
		default:
			// The side that was scored on serves.
			g.serve(scorer.Opposite())
			g.status = Playing()
		}

	case StatusGameOver:
		// Terminal until ResetMatch.
	}

	g.tick++
	return evt, nil
}

// stepPlaying runs the physics pipeline for one Playing tick.
func (g *Game) stepPlaying(in InputPair) Event {
	UpdatePaddle(&g.paddles[Left], in.A, g.config)
	UpdatePaddle(&g.paddles[Right], in.B, g.config)

	UpdateBall(&g.ball, g.config)

	CheckPaddleCollision(&g.ball, g.paddles[Left], Left, g.config)
	CheckPaddleCollision(&g.ball, g.paddles[Right], Right, g.config)

	LimitSpeed(&g.ball, g.config.maxBallSpeed())

	scorer, scored := CheckScoring(g.ball)
	if !scored {
		return nil
	}

	g.score[scorer]++
	g.status = Scored(scorer, ScoredPauseTicks)
	return ScoredEvent{Scorer: scorer, Score: g.score}
}

func (g *Game) serve(server Side) {
	Serve(&g.ball, &g.rng, server, g.config)
}

// View returns a read-only projection for renderers.
func (g *Game) View() View {
	return View{
		Tick:        g.tick,
		Status:      g.status,
		LeftY:       g.paddles[Left].Y,
		RightY:      g.paddles[Right].Y,
		PaddleHalfH: g.config.PaddleHalfH,
		BallPos:     g.ball.Pos,
		Score:       g.score,
		PaddleX:     g.config.PaddleX,
		PaddleWidth: g.config.PaddleWidth,
		BallRadius:  g.config.BallRadius,
	}
}

// Snapshot captures the complete simulation state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:    g.tick,
		Status:  g.status,
		Paddles: g.paddles,
		Ball:    g.ball,
		Score:   g.score,
		RNG:     g.rng,
	}
}

// Restore replaces the simulation state with a snapshot. Config is unchanged.
func (g *Game) Restore(s Snapshot) {
	g.tick = s.Tick
	g.status = s.Status
	g.paddles = s.Paddles
	g.ball = s.Ball
	g.score = s.Score
	g.rng = s.RNG
}

// ResetMatch reinitializes the match from Config for a rematch.
func (g *Game) ResetMatch() {
	g.tick = 0
	g.status = Lobby()
	g.score = [2]uint8{}
	g.paddles = [2]Paddle{{Y: fx.Half}, {Y: fx.Half}}
	g.ball = Ball{Pos: Vec2{X: fx.Half, Y: fx.Half}}
	g.rng = g.config.Seed
	g.serve(Left)
}

// CurrentTick returns the tick the next Step must carry.
func (g *Game) CurrentTick() Tick {
	return g.tick
}

// Config returns the match configuration.
func (g *Game) Config() Config {
	return g.config
}

// Status returns the current state-machine state.
func (g *Game) Status() Status {
	return g.status
}

// Score returns the score, Left first.
func (g *Game) Score() [2]uint8 {
	return g.score
}

// Winner returns the winner once the game is over.
func (g *Game) Winner() (Side, bool) {
	if g.status.Kind == StatusGameOver {
		return g.status.Side, true
	}
	return Left, false
}

// IsActive reports whether the ball is in play.
func (g *Game) IsActive() bool {
	return g.status.Kind == StatusPlaying
}

// StatusString returns a short description of the status for display.
func (g *Game) StatusString() string {
	return StatusText(g.status)
}

// StatusText describes a status for display.
func StatusText(s Status) string {
	switch s.Kind {
	case StatusLobby:
		return "Waiting for players"
	case StatusCountdown:
		return "Get ready..."
	case StatusPlaying:
		return "Playing"
	case StatusScored:
		return "Point scored!"
	case StatusGameOver:
		return "Game over"
	default:
		return "Unknown"
	}
}

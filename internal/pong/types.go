package pong

import (
	"fmt"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
)

// Tick is the logical clock of the simulation.
type Tick = uint32

// Side identifies a player. Left is always slot A of an InputPair.
type Side uint8

const (
	Left Side = iota
	Right
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// Index returns 0 for Left and 1 for Right, for indexing paddles and scores.
func (s Side) Index() int {
	return int(s)
}

// String returns a human-readable name for the side.
func (s Side) String() string {
	switch s {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// Vec2 is a fixed-point 2D vector.
type Vec2 struct {
	X, Y fx.Fx
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Paddle is one player's paddle: vertical center and velocity.
type Paddle struct {
	Y  fx.Fx
	VY fx.Fx
}

// Ball is the ball position (center) and velocity in field units per second.
type Ball struct {
	Pos Vec2
	Vel Vec2
}

// ButtonReady is bit 0 of Input.Buttons.
const ButtonReady uint8 = 1 << 0

// Input is one tick's control sample for one player.
type Input struct {
	AxisY   int8 // [-127, 127], negative moves up
	Buttons uint8
}

// IsReady reports whether the ready button is held.
func (in Input) IsReady() bool {
	return in.Buttons&ButtonReady != 0
}

// InputPair holds both players' input for one tick.
// A is always Left and B is always Right, whichever side is local.
type InputPair struct {
	Tick Tick
	A    Input
	B    Input
}

// NewInputPair creates an input pair for the given tick.
func NewInputPair(tick Tick, a, b Input) InputPair {
	return InputPair{Tick: tick, A: a, B: b}
}

// Get returns the input for the given side.
func (p InputPair) Get(side Side) Input {
	if side == Left {
		return p.A
	}
	return p.B
}

// StatusKind is the state-machine tag of a Status.
type StatusKind uint8

const (
	StatusLobby StatusKind = iota
	StatusCountdown
	StatusPlaying
	StatusScored
	StatusGameOver
)

// String returns the name of the status kind.
func (k StatusKind) String() string {
	switch k {
	case StatusLobby:
		return "Lobby"
	case StatusCountdown:
		return "Countdown"
	case StatusPlaying:
		return "Playing"
	case StatusScored:
		return "Scored"
	case StatusGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Status is the game state-machine state. Ticks is meaningful for Countdown
// and Scored, Side for Scored (scorer) and GameOver (winner).
// Unused payload fields are always zero so Status values compare with ==.
type Status struct {
	Kind  StatusKind
	Ticks uint16
	Side  Side
}

// Lobby waits for both players to press ready.
func Lobby() Status { return Status{Kind: StatusLobby} }

// Countdown counts down to Playing.
func Countdown(ticks uint16) Status { return Status{Kind: StatusCountdown, Ticks: ticks} }

// Playing runs physics every tick.
func Playing() Status { return Status{Kind: StatusPlaying} }

// Scored pauses after a point.
func Scored(scorer Side, ticks uint16) Status {
	return Status{Kind: StatusScored, Ticks: ticks, Side: scorer}
}

// GameOver is terminal until ResetMatch.
func GameOver(winner Side) Status { return Status{Kind: StatusGameOver, Side: winner} }

// String renders the status with its payload, e.g. "Scored(Left, 120)".
func (s Status) String() string {
	switch s.Kind {
	case StatusCountdown:
		return fmt.Sprintf("Countdown(%d)", s.Ticks)
	case StatusScored:
		return fmt.Sprintf("Scored(%s, %d)", s.Side, s.Ticks)
	case StatusGameOver:
		return fmt.Sprintf("GameOver(%s)", s.Side)
	default:
		return s.Kind.String()
	}
}

// Snapshot is the complete restorable simulation state.
type Snapshot struct {
	Tick    Tick
	Status  Status
	Paddles [2]Paddle
	Ball    Ball
	Score   [2]uint8
	RNG     uint64
}

// Event is an externally observable side effect of a step.
type Event interface {
	gameEvent()
}

// ScoredEvent is emitted on the tick a point is scored.
type ScoredEvent struct {
	Scorer Side
	Score  [2]uint8
}

func (ScoredEvent) gameEvent() {}

// View is a read-only projection of the game for renderers.
type View struct {
	Tick        Tick
	Status      Status
	LeftY       fx.Fx
	RightY      fx.Fx
	PaddleHalfH fx.Fx
	BallPos     Vec2
	Score       [2]uint8
	PaddleX     fx.Fx // distance of each paddle from its edge
	PaddleWidth fx.Fx
	BallRadius  fx.Fx
}

// PaddleY returns the paddle center for a side.
func (v View) PaddleY(side Side) fx.Fx {
	if side == Left {
		return v.LeftY
	}
	return v.RightY
}

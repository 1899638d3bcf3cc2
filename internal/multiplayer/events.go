package multiplayer

import (
	"time"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// SessionEvent represents an event sent from a running match to a session.
type SessionEvent interface {
	sessionEvent()
}

// MatchStartedEvent is sent when the peer starts its lockstep session.
type MatchStartedEvent struct {
	SessionID  SessionID
	Side       pong.Side
	Timekeeper bool
}

func (MatchStartedEvent) sessionEvent() {}

// PointScoredEvent is sent on the tick a point is scored.
type PointScoredEvent struct {
	Tick   pong.Tick
	Scorer pong.Side
	Score  [2]uint8
}

func (PointScoredEvent) sessionEvent() {}

// GameOverEvent is sent once when the match reaches GameOver.
type GameOverEvent struct {
	Winner pong.Side
	Score  [2]uint8
}

func (GameOverEvent) sessionEvent() {}

// ResyncEvent is sent when a snapshot replaced the local state.
type ResyncEvent struct {
	Tick pong.Tick
}

func (ResyncEvent) sessionEvent() {}

// RematchEvent is sent when the timekeeper restarts the match.
type RematchEvent struct{}

func (RematchEvent) sessionEvent() {}

// LatencyEvent carries a measured round trip.
type LatencyEvent struct {
	RTT time.Duration
}

func (LatencyEvent) sessionEvent() {}

// MatchEndedEvent is sent when Run returns.
type MatchEndedEvent struct {
	Result MatchResult
	Err    error
}

func (MatchEndedEvent) sessionEvent() {}

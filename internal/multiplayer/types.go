// Package multiplayer drives lockstep matches: a Peer runs one side of an
// online match against a remote transport, and Local runs a hotseat match
// with both sides in one process.
package multiplayer

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// SessionID uniquely identifies one player's session (an SSH connection, a
// terminal client or a headless peer).
type SessionID string

// NewSessionID returns a fresh random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Short returns the first eight characters for log lines and status bars.
func (id SessionID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // Normal game completion
	MatchEndReasonDisconnect                       // Opponent disconnected
	MatchEndReasonCancelled                        // Match was cancelled locally
	MatchEndReasonError                            // Unrecoverable protocol or transport error
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonError:
		return "Match aborted"
	default:
		return "Unknown"
	}
}

// MatchResult contains the outcome of a finished match.
type MatchResult struct {
	SessionID SessionID
	Reason    MatchEndReason
	Winner    pong.Side
	HasWinner bool
	Score     [2]uint8
	Ticks     pong.Tick
}

// resultFrom fills the score and winner fields from a view.
func resultFrom(id SessionID, reason MatchEndReason, v pong.View) MatchResult {
	res := MatchResult{
		SessionID: id,
		Reason:    reason,
		Score:     v.Score,
		Ticks:     v.Tick,
	}
	if v.Status.Kind == pong.StatusGameOver {
		res.Winner = v.Status.Side
		res.HasWinner = true
	}
	return res
}

// Stats is a diagnostic snapshot of a running peer.
type Stats struct {
	Tick            pong.Tick
	Waiting         bool
	LocalBuffered   int
	RemoteBuffered  int
	RTT             time.Duration // 0 until the first pong
	Snapshots       int           // snapshots received
	Resyncs         int           // snapshots sent after a desync
	Connected       bool
	TransportStatus string
}

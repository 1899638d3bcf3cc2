package lockstep

import (
	"time"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// Event is a notification returned by OnNetMessage, Tick and OnDisconnect.
type Event interface {
	lockstepEvent()
}

// GameAdvanced reports a tick whose step emitted simulation events.
// Ticks that advance quietly produce no GameAdvanced.
type GameAdvanced struct {
	Tick   pong.Tick
	Events []pong.Event
}

// PeerDisconnected reports that the transport to the peer is gone.
type PeerDisconnected struct{}

// PongReceived reports the round trip of the last answered ping.
type PongReceived struct {
	RTT time.Duration
}

// SnapshotReceived reports that a peer snapshot replaced the local state.
type SnapshotReceived struct {
	Tick pong.Tick
}

func (GameAdvanced) lockstepEvent()     {}
func (PeerDisconnected) lockstepEvent() {}
func (PongReceived) lockstepEvent()     {}
func (SnapshotReceived) lockstepEvent() {}

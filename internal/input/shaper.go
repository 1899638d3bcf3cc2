// Package input turns key presses into per-tick paddle inputs.
//
// Terminals report key presses but rarely key releases, so a raw key stream
// cannot say how long a key is held. Two strategies cover this: Hold treats
// each press as held for a short latch, Momentum treats presses as taps that
// build up and bleed off speed. Only the resulting pong.Input reaches the
// simulation; the floating-point momentum stays local to this process.
package input

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// Mode selects the shaping strategy.
type Mode uint8

const (
	ModeHold Mode = iota
	ModeMomentum
)

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeHold:
		return "hold"
	case ModeMomentum:
		return "momentum"
	default:
		return "unknown"
	}
}

// Description is a short label for the status line.
func (m Mode) Description() string {
	switch m {
	case ModeHold:
		return "Hold keys"
	case ModeMomentum:
		return "Momentum (tap keys)"
	default:
		return "Unknown"
	}
}

// ParseMode parses "hold" or "momentum", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hold", "":
		return ModeHold, nil
	case "momentum":
		return ModeMomentum, nil
	default:
		return ModeHold, fmt.Errorf("unknown input mode %q (want hold or momentum)", s)
	}
}

// Direction is a paddle movement request. Up moves toward y = 0.
type Direction int8

const (
	None Direction = 0
	Up   Direction = -1
	Down Direction = 1
)

// DefaultHoldTicks is how long a press is treated as held in Hold mode,
// roughly a terminal's key-repeat interval at 60 Hz.
const DefaultHoldTicks = 8

// Momentum tuning.
const (
	brakeFactor   = 0.25
	reverseKick   = 0.15
	stopThreshold = 0.02
	maxAxis       = 127
)

// Shaper holds one player's input state.
type Shaper struct {
	mode      Mode
	holdTicks int

	dir      Direction
	holdLeft int
	momentum float64
	ready    bool
}

// NewShaper creates a shaper. holdTicks <= 0 uses DefaultHoldTicks.
func NewShaper(mode Mode, holdTicks int) *Shaper {
	if holdTicks <= 0 {
		holdTicks = DefaultHoldTicks
	}
	return &Shaper{mode: mode, holdTicks: holdTicks}
}

// Mode returns the strategy in use.
func (s *Shaper) Mode() Mode {
	return s.mode
}

// Press registers a key press in direction d.
func (s *Shaper) Press(d Direction) {
	if d == None {
		return
	}
	switch s.mode {
	case ModeHold:
		s.dir = d
		s.holdLeft = s.holdTicks
	case ModeMomentum:
		s.tap(float64(d))
	}
}

// Release drops a held direction immediately. Terminals that report key
// releases call it; others rely on the hold latch running out.
func (s *Shaper) Release(d Direction) {
	if s.mode == ModeHold && s.dir == d {
		s.dir = None
		s.holdLeft = 0
	}
}

func (s *Shaper) tap(dir float64) {
	current := sign(s.momentum)
	if current != 0 && current != dir {
		s.momentum *= brakeFactor
		s.momentum += dir * reverseKick
	} else {
		var gain float64
		switch m := math.Abs(s.momentum); {
		case m < 0.3:
			gain = 0.4
		case m < 0.7:
			gain = 0.35
		default:
			gain = 0.25
		}
		s.momentum += dir * gain
	}
	s.momentum = max(-1, min(1, s.momentum))
}

// Ready latches the ready button until ClearReady.
func (s *Shaper) Ready() {
	s.ready = true
}

// ClearReady releases the ready button, typically once the match left the lobby.
func (s *Shaper) ClearReady() {
	s.ready = false
}

// Update advances the shaper by one tick: the hold latch counts down and
// momentum decays with friction.
func (s *Shaper) Update() {
	switch s.mode {
	case ModeHold:
		if s.holdLeft > 0 {
			s.holdLeft--
			if s.holdLeft == 0 {
				s.dir = None
			}
		}
	case ModeMomentum:
		var friction float64
		switch m := math.Abs(s.momentum); {
		case m > 0.9:
			friction = 0.90
		case m > 0.5:
			friction = 0.94
		case m > 0.1:
			friction = 0.97
		default:
			friction = 1
		}
		s.momentum *= friction
		if math.Abs(s.momentum) < stopThreshold {
			s.momentum = 0
		}
	}
}

// Input returns the input to submit for the current tick.
func (s *Shaper) Input() pong.Input {
	var axis int8
	switch s.mode {
	case ModeHold:
		axis = int8(s.dir) * maxAxis
	case ModeMomentum:
		axis = int8(s.momentum * maxAxis)
	}

	var buttons uint8
	if s.ready {
		buttons |= pong.ButtonReady
	}
	return pong.Input{AxisY: axis, Buttons: buttons}
}

// Momentum returns the current momentum in [-1, 1]. Always 0 in Hold mode.
func (s *Shaper) Momentum() float64 {
	return s.momentum
}

// Reset clears all state.
func (s *Shaper) Reset() {
	*s = Shaper{mode: s.mode, holdTicks: s.holdTicks}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

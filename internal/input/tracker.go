package input

import (
	"github.com/vovakirdan/lockstep-pong/internal/fx"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// Default tracker tuning.
const (
	DefaultTrackerSkill = 0.8
	defaultDeadzone     = fx.One / 64
)

// Tracker is a computer player for one side. It presses ready in the lobby
// and steers its paddle toward the ball with an imperfect, skill-scaled
// reaction. It is used by headless peers and the sim command.
type Tracker struct {
	side     pong.Side
	skill    float64
	deadzone fx.Fx
}

// NewTracker creates a tracker. skill is clamped to (0, 1]; 0 uses the default.
func NewTracker(side pong.Side, skill float64) *Tracker {
	if skill <= 0 {
		skill = DefaultTrackerSkill
	}
	return &Tracker{side: side, skill: min(skill, 1), deadzone: defaultDeadzone}
}

// Side returns the paddle the tracker plays.
func (t *Tracker) Side() pong.Side {
	return t.side
}

// Input picks the input for the next tick from the current view.
func (t *Tracker) Input(v pong.View) pong.Input {
	switch v.Status.Kind {
	case pong.StatusLobby:
		return pong.Input{Buttons: pong.ButtonReady}
	case pong.StatusPlaying:
	default:
		return pong.Input{}
	}

	diff := v.BallPos.Y - v.PaddleY(t.side)
	if diff.Abs() <= t.deadzone {
		return pong.Input{}
	}

	// Full deflection once the ball is a paddle half-height away.
	reach := v.PaddleHalfH
	if reach <= 0 {
		reach = fx.One / 8
	}
	ratio := diff.ToFloat() / reach.ToFloat() * t.skill
	ratio = max(-1, min(1, ratio))
	return pong.Input{AxisY: int8(ratio * maxAxis)}
}

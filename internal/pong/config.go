package pong

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
)

// Fixed pause lengths in ticks. They do not scale with TickHz.
const (
	CountdownTicks   uint16 = 180
	ScoredPauseTicks uint16 = 180
)

// MaxTickHz bounds TickHz so TickHz*fx.One fits in an Fx.
const MaxTickHz = 1000

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("pong: invalid config")

// Config holds per-match tunables. All peers of a match must use identical values.
type Config struct {
	PaddleHalfH   fx.Fx  // paddle half-height
	PaddleSpeed   fx.Fx  // field units per second at full deflection
	BallSpeed     fx.Fx  // serve speed, field units per second
	BallSpeedUp   fx.Fx  // velocity multiplier per paddle hit
	WallThickness fx.Fx  // reserved, unused by physics
	PaddleX       fx.Fx  // paddle distance from its edge
	MaxScore      uint8  // points needed to win
	Seed          uint64 // RNG seed
	TickHz        uint32 // simulation ticks per second
	BallRadius    fx.Fx  // render size
	PaddleWidth   fx.Fx  // render size
}

// DefaultConfig returns the standard match configuration.
func DefaultConfig() Config {
	return Config{
		PaddleHalfH:   fx.One / 8,
		PaddleSpeed:   fx.One * 3,
		BallSpeed:     fx.One / 2,
		BallSpeedUp:   fx.One + fx.One/20,
		WallThickness: 0,
		PaddleX:       fx.FromFloat(0.05),
		MaxScore:      11,
		Seed:          0xC0FFEE,
		TickHz:        60,
		BallRadius:    fx.FromFloat(1.0 / 32),
		PaddleWidth:   fx.FromFloat(0.025),
	}
}

// Validate checks the values the physics divides by or clamps against.
func (c Config) Validate() error {
	switch {
	case c.TickHz == 0:
		return fmt.Errorf("%w: tick_hz must be positive: %w", ErrInvalidConfig, fx.ErrDivisionByZero)
	case c.TickHz > MaxTickHz:
		return fmt.Errorf("%w: tick_hz %d out of range (1-%d)", ErrInvalidConfig, c.TickHz, MaxTickHz)
	case c.MaxScore == 0:
		return fmt.Errorf("%w: max_score must be positive", ErrInvalidConfig)
	case c.PaddleHalfH <= 0 || c.PaddleHalfH >= fx.Half:
		return fmt.Errorf("%w: paddle_half_h %s out of range (0, 0.5)", ErrInvalidConfig, c.PaddleHalfH)
	case c.PaddleSpeed <= 0:
		return fmt.Errorf("%w: paddle_speed must be positive", ErrInvalidConfig)
	case c.BallSpeed <= 0:
		return fmt.Errorf("%w: ball_speed must be positive", ErrInvalidConfig)
	case c.BallSpeedUp < fx.One:
		return fmt.Errorf("%w: ball_speed_up %s below 1.0", ErrInvalidConfig, c.BallSpeedUp)
	case c.PaddleX < 0 || c.PaddleX >= fx.Half:
		return fmt.Errorf("%w: paddle_x %s out of range [0, 0.5)", ErrInvalidConfig, c.PaddleX)
	}
	return nil
}

// tickDivisor is TickHz as a fixed-point value. The int32 product only
// fits because Validate caps TickHz at MaxTickHz; Step never runs on a
// config that failed Validate.
func (c Config) tickDivisor() fx.Fx {
	return fx.Fx(int32(c.TickHz)) * fx.One
}

// maxBallSpeed is the speed cap applied every Playing tick.
func (c Config) maxBallSpeed() fx.Fx {
	return fx.Mul(c.BallSpeed, 4*fx.One)
}

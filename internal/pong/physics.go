package pong

import "github.com/vovakirdan/lockstep-pong/internal/fx"

// LCG constants for serve randomness. Wrapping 64-bit arithmetic.
const (
	lcgMul uint64 = 1103515245
	lcgInc uint64 = 12345
)

// Square root iteration limits.
const (
	sqrtMaxIterations = 10
	sqrtEpsilon       = 16
)

// UpdatePaddle maps the input axis to a velocity and integrates one tick.
// A zero axis stops the paddle immediately.
func UpdatePaddle(p *Paddle, in Input, cfg Config) {
	if in.AxisY == 0 {
		p.VY = 0
	} else {
		normalized := fx.Fx(int32(in.AxisY)*int32(fx.One)) / 127
		p.VY = fx.Mul(normalized, cfg.PaddleSpeed)
	}

	p.Y += fx.MustDiv(p.VY, cfg.tickDivisor())

	minY := cfg.PaddleHalfH
	maxY := fx.One - cfg.PaddleHalfH
	p.Y = fx.Clamp(p.Y, minY, maxY)

	if p.Y <= minY || p.Y >= maxY {
		p.VY = 0
	}
}

// UpdateBall integrates the ball one tick and bounces it off the top and
// bottom walls. There is no horizontal wall; leaving the field is a score.
func UpdateBall(b *Ball, cfg Config) {
	div := cfg.tickDivisor()
	b.Pos.X += fx.MustDiv(b.Vel.X, div)
	b.Pos.Y += fx.MustDiv(b.Vel.Y, div)

	if b.Pos.Y <= 0 {
		b.Pos.Y = 0
		b.Vel.Y = -b.Vel.Y
	} else if b.Pos.Y >= fx.One {
		b.Pos.Y = fx.One
		b.Vel.Y = -b.Vel.Y
	}
}

// collisionRadius is the half-size of the ball and paddle hit boxes.
func collisionRadius(cfg Config) fx.Fx {
	return fx.MustDiv(cfg.BallSpeed, 60*fx.One)
}

// CheckPaddleCollision reflects the ball off the paddle of the given side.
// The ball only bounces while moving toward the paddle, so a ball already
// inside the paddle box cannot bounce twice. Reports whether it bounced.
func CheckPaddleCollision(b *Ball, p Paddle, side Side, cfg Config) bool {
	paddleX := cfg.PaddleX
	if side == Right {
		paddleX = fx.One - cfg.PaddleX
	}

	r := collisionRadius(cfg)

	ballLeft := b.Pos.X - r
	ballRight := b.Pos.X + r
	ballTop := b.Pos.Y - r
	ballBottom := b.Pos.Y + r

	paddleLeft := paddleX - r
	paddleRight := paddleX + r
	paddleTop := p.Y - cfg.PaddleHalfH
	paddleBottom := p.Y + cfg.PaddleHalfH

	if ballRight < paddleLeft || ballLeft > paddleRight ||
		ballBottom < paddleTop || ballTop > paddleBottom {
		return false
	}

	switch side {
	case Left:
		if b.Vel.X >= 0 {
			return false
		}
		b.Pos.X = paddleRight + r
	case Right:
		if b.Vel.X <= 0 {
			return false
		}
		b.Pos.X = paddleLeft - r
	}

	b.Vel.X = -b.Vel.X
	b.Vel.Y += fx.MustDiv(p.VY, 4*fx.One)
	b.Vel.X = fx.Mul(b.Vel.X, cfg.BallSpeedUp)
	b.Vel.Y = fx.Mul(b.Vel.Y, cfg.BallSpeedUp)
	return true
}

// CheckScoring returns the scoring side once the ball leaves the field.
func CheckScoring(b Ball) (Side, bool) {
	switch {
	case b.Pos.X < 0:
		return Right, true
	case b.Pos.X > fx.One:
		return Left, true
	default:
		return Left, false
	}
}

// NextRNG advances the serve generator by one step.
func NextRNG(state uint64) uint64 {
	return state*lcgMul + lcgInc
}

// Serve centres the ball and launches it away from the serving side.
// The vertical component comes from bits 16..47 of the advanced RNG state.
func Serve(b *Ball, rng *uint64, server Side, cfg Config) {
	b.Pos = Vec2{X: fx.Half, Y: fx.Half}

	*rng = NextRNG(*rng)
	angle := int32(*rng >> 16)
	vy := fx.Fx(angle%int32(fx.Half)) - fx.Quarter

	vx := cfg.BallSpeed
	if server == Right {
		vx = -cfg.BallSpeed
	}

	b.Vel = Vec2{X: vx, Y: vy}
}

// LimitSpeed rescales the ball velocity down to maxSpeed when it is faster.
func LimitSpeed(b *Ball, maxSpeed fx.Fx) {
	speedSq := fx.Mul(b.Vel.X, b.Vel.X) + fx.Mul(b.Vel.Y, b.Vel.Y)
	maxSq := fx.Mul(maxSpeed, maxSpeed)
	if speedSq <= maxSq {
		return
	}

	speed := SqrtFx(speedSq)
	if speed == 0 {
		return
	}
	scale := fx.MustDiv(maxSpeed, speed)
	b.Vel.X = fx.Mul(b.Vel.X, scale)
	b.Vel.Y = fx.Mul(b.Vel.Y, scale)
}

// SqrtFx approximates the square root with Newton's method in fixed point.
func SqrtFx(v fx.Fx) fx.Fx {
	if v <= 0 {
		return 0
	}

	x := v
	for range sqrtMaxIterations {
		if x == 0 {
			break
		}
		prev := x
		x = (x + fx.MustDiv(v, x)) / 2
		if (x - prev).Abs() < sqrtEpsilon {
			break
		}
	}
	return x
}

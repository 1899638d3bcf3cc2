package pong

import (
	"testing"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
)

func TestUpdatePaddle(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		axis   int8
		wantVY func(fx.Fx) bool
		desc   string
	}{
		{"full down", 127, func(v fx.Fx) bool { return v > 0 }, "> 0"},
		{"full up", -127, func(v fx.Fx) bool { return v < 0 }, "< 0"},
		{"no input", 0, func(v fx.Fx) bool { return v == 0 }, "== 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paddle{Y: fx.Half, VY: fx.One}
			UpdatePaddle(&p, Input{AxisY: tt.axis}, cfg)
			if !tt.wantVY(p.VY) {
				t.Errorf("VY = %d, expected %s", p.VY, tt.desc)
			}
		})
	}
}

func TestUpdatePaddleExactVelocity(t *testing.T) {
	cfg := DefaultConfig()
	p := Paddle{Y: fx.Half}

	UpdatePaddle(&p, Input{AxisY: 127}, cfg)

	if p.VY != cfg.PaddleSpeed {
		t.Errorf("VY = %d, expected %d", p.VY, cfg.PaddleSpeed)
	}
	// 3.0 / 60 per tick
	if p.Y != fx.Half+3276 {
		t.Errorf("Y = %d, expected %d", p.Y, fx.Half+3276)
	}
}

func TestUpdatePaddleBounds(t *testing.T) {
	cfg := DefaultConfig()

	p := Paddle{Y: 0}
	UpdatePaddle(&p, Input{AxisY: -127}, cfg)
	if p.Y != cfg.PaddleHalfH {
		t.Errorf("Y = %d, expected clamp to %d", p.Y, cfg.PaddleHalfH)
	}
	if p.VY != 0 {
		t.Errorf("VY = %d, expected 0 at bound", p.VY)
	}

	p = Paddle{Y: fx.One}
	UpdatePaddle(&p, Input{AxisY: 127}, cfg)
	if p.Y != fx.One-cfg.PaddleHalfH {
		t.Errorf("Y = %d, expected clamp to %d", p.Y, fx.One-cfg.PaddleHalfH)
	}
	if p.VY != 0 {
		t.Errorf("VY = %d, expected 0 at bound", p.VY)
	}
}

func TestUpdateBallWalls(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		ball  Ball
		wantY fx.Fx
		up    bool
	}{
		{
			name:  "bottom wall",
			ball:  Ball{Pos: Vec2{X: fx.Half, Y: 0}, Vel: Vec2{Y: -1000}},
			wantY: 0,
			up:    true,
		},
		{
			name:  "bottom wall quarter speed",
			ball:  Ball{Pos: Vec2{X: fx.Half, Y: 0}, Vel: Vec2{Y: -fx.Quarter}},
			wantY: 0,
			up:    true,
		},
		{
			name:  "top wall",
			ball:  Ball{Pos: Vec2{X: fx.Half, Y: fx.One}, Vel: Vec2{Y: 1000}},
			wantY: fx.One,
			up:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.ball
			UpdateBall(&b, cfg)
			if b.Pos.Y != tt.wantY {
				t.Errorf("Pos.Y = %d, expected %d", b.Pos.Y, tt.wantY)
			}
			if tt.up && b.Vel.Y <= 0 {
				t.Errorf("Vel.Y = %d, expected > 0", b.Vel.Y)
			}
			if !tt.up && b.Vel.Y >= 0 {
				t.Errorf("Vel.Y = %d, expected < 0", b.Vel.Y)
			}
		})
	}
}

func TestUpdateBallNoHorizontalWall(t *testing.T) {
	cfg := DefaultConfig()
	b := Ball{Pos: Vec2{X: 0, Y: fx.Half}, Vel: Vec2{X: -fx.One}}

	UpdateBall(&b, cfg)

	if b.Pos.X >= 0 {
		t.Errorf("Pos.X = %d, expected negative", b.Pos.X)
	}
	if b.Vel.X != -fx.One {
		t.Errorf("Vel.X = %d, expected unchanged", b.Vel.X)
	}
}

func TestCheckScoring(t *testing.T) {
	tests := []struct {
		name     string
		x        fx.Fx
		expected Side
		scored   bool
	}{
		{"past left edge", -1, Right, true},
		{"far past left edge", -fx.Quarter, Right, true},
		{"past right edge", fx.One + 1, Left, true},
		{"far past right edge", fx.One + fx.Quarter, Left, true},
		{"center", fx.Half, Left, false},
		{"exactly left edge", 0, Left, false},
		{"exactly right edge", fx.One, Left, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, scored := CheckScoring(Ball{Pos: Vec2{X: tt.x, Y: fx.Half}})
			if scored != tt.scored {
				t.Fatalf("CheckScoring() scored = %v, expected %v", scored, tt.scored)
			}
			if scored && side != tt.expected {
				t.Errorf("CheckScoring() = %v, expected %v", side, tt.expected)
			}
		})
	}
}

func TestCheckPaddleCollision(t *testing.T) {
	cfg := DefaultConfig()
	r := collisionRadius(cfg)

	t.Run("left paddle reflects", func(t *testing.T) {
		b := Ball{Pos: Vec2{X: cfg.PaddleX, Y: fx.Half}, Vel: Vec2{X: -fx.Quarter}}
		hit := CheckPaddleCollision(&b, Paddle{Y: fx.Half}, Left, cfg)
		if !hit {
			t.Fatal("expected a hit")
		}
		if b.Vel.X <= 0 {
			t.Errorf("Vel.X = %d, expected > 0", b.Vel.X)
		}
		if b.Pos.X != cfg.PaddleX+2*r {
			t.Errorf("Pos.X = %d, expected %d", b.Pos.X, cfg.PaddleX+2*r)
		}
		if want := fx.Mul(fx.Quarter, cfg.BallSpeedUp); b.Vel.X != want {
			t.Errorf("Vel.X = %d, expected %d after speed-up", b.Vel.X, want)
		}
	})

	t.Run("right paddle reflects", func(t *testing.T) {
		px := fx.One - cfg.PaddleX
		b := Ball{Pos: Vec2{X: px, Y: fx.Half}, Vel: Vec2{X: fx.Quarter}}
		hit := CheckPaddleCollision(&b, Paddle{Y: fx.Half}, Right, cfg)
		if !hit {
			t.Fatal("expected a hit")
		}
		if b.Vel.X >= 0 {
			t.Errorf("Vel.X = %d, expected < 0", b.Vel.X)
		}
		if b.Pos.X != px-2*r {
			t.Errorf("Pos.X = %d, expected %d", b.Pos.X, px-2*r)
		}
	})

	t.Run("moving away does not reflect", func(t *testing.T) {
		b := Ball{Pos: Vec2{X: cfg.PaddleX, Y: fx.Half}, Vel: Vec2{X: fx.Quarter}}
		if CheckPaddleCollision(&b, Paddle{Y: fx.Half}, Left, cfg) {
			t.Error("ball moving away from the paddle should not bounce")
		}
		if b.Vel.X != fx.Quarter {
			t.Errorf("Vel.X = %d, expected unchanged", b.Vel.X)
		}
	})

	t.Run("miss above paddle", func(t *testing.T) {
		b := Ball{Pos: Vec2{X: cfg.PaddleX, Y: fx.One - 10}, Vel: Vec2{X: -fx.Quarter}}
		if CheckPaddleCollision(&b, Paddle{Y: fx.Half}, Left, cfg) {
			t.Error("ball outside the paddle span should not bounce")
		}
	})

	t.Run("paddle velocity adds spin", func(t *testing.T) {
		b := Ball{Pos: Vec2{X: cfg.PaddleX, Y: fx.Half}, Vel: Vec2{X: -fx.Quarter}}
		CheckPaddleCollision(&b, Paddle{Y: fx.Half, VY: fx.One}, Left, cfg)
		want := fx.Mul(fx.Quarter, cfg.BallSpeedUp)
		if b.Vel.Y != want {
			t.Errorf("Vel.Y = %d, expected %d", b.Vel.Y, want)
		}
	})
}

func TestServe(t *testing.T) {
	cfg := DefaultConfig()

	var b Ball
	rng := uint64(12345)
	Serve(&b, &rng, Left, cfg)

	if b.Pos != (Vec2{X: fx.Half, Y: fx.Half}) {
		t.Errorf("Pos = %+v, expected center", b.Pos)
	}
	if b.Vel.X != cfg.BallSpeed {
		t.Errorf("Vel.X = %d, expected %d", b.Vel.X, cfg.BallSpeed)
	}
	if rng != 13622895711870 {
		t.Errorf("rng = %d, expected 13622895711870", rng)
	}
	if b.Vel.Y != 5084 {
		t.Errorf("Vel.Y = %d, expected 5084", b.Vel.Y)
	}

	Serve(&b, &rng, Right, cfg)
	if b.Vel.X != -cfg.BallSpeed {
		t.Errorf("Vel.X = %d, expected %d", b.Vel.X, -cfg.BallSpeed)
	}
}

func TestServeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	var b1, b2 Ball
	rng1, rng2 := uint64(42), uint64(42)

	for range 50 {
		Serve(&b1, &rng1, Left, cfg)
		Serve(&b2, &rng2, Left, cfg)
		if b1 != b2 || rng1 != rng2 {
			t.Fatalf("serves diverged: %+v/%d vs %+v/%d", b1, rng1, b2, rng2)
		}
		if b1.Vel.Y < -3*fx.Quarter || b1.Vel.Y >= fx.Quarter {
			t.Errorf("Vel.Y = %d outside [-0.75, 0.25)", b1.Vel.Y)
		}
	}
}

func TestLimitSpeed(t *testing.T) {
	maxSpeed := 2 * fx.One
	b := Ball{Vel: Vec2{X: 4 * fx.One, Y: 4 * fx.One}}

	LimitSpeed(&b, maxSpeed)

	if b.Vel.X != 92680 || b.Vel.Y != 92680 {
		t.Errorf("Vel = %+v, expected {92680 92680}", b.Vel)
	}
	sq := fx.Mul(b.Vel.X, b.Vel.X) + fx.Mul(b.Vel.Y, b.Vel.Y)
	if sq > fx.Mul(maxSpeed, maxSpeed) {
		t.Errorf("speed squared %d exceeds cap %d", sq, fx.Mul(maxSpeed, maxSpeed))
	}

	slow := Ball{Vel: Vec2{X: fx.Half, Y: fx.Quarter}}
	LimitSpeed(&slow, maxSpeed)
	if slow.Vel != (Vec2{X: fx.Half, Y: fx.Quarter}) {
		t.Errorf("Vel = %+v, expected unchanged below cap", slow.Vel)
	}
}

func TestSqrtFx(t *testing.T) {
	tests := []struct {
		in       fx.Fx
		expected fx.Fx
	}{
		{fx.One, fx.One},
		{4 * fx.One, 2 * fx.One},
		{fx.Quarter, fx.Half},
		{32 * fx.One, 370727},
		{0, 0},
		{-fx.One, 0},
	}

	for _, tt := range tests {
		if got := SqrtFx(tt.in); got != tt.expected {
			t.Errorf("SqrtFx(%d) = %d, expected %d", tt.in, got, tt.expected)
		}
	}
}

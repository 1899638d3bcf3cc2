package pong

import (
	"errors"
	"testing"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
)

var (
	idle  = Input{}
	ready = Input{Buttons: ButtonReady}
)

func TestNewGame(t *testing.T) {
	g := New(DefaultConfig())

	if g.CurrentTick() != 0 {
		t.Errorf("CurrentTick() = %d, expected 0", g.CurrentTick())
	}
	if g.Status() != Lobby() {
		t.Errorf("Status() = %v, expected Lobby", g.Status())
	}
	if g.Score() != [2]uint8{0, 0} {
		t.Errorf("Score() = %v, expected [0 0]", g.Score())
	}
	if g.ball.Pos != (Vec2{X: fx.Half, Y: fx.Half}) {
		t.Errorf("ball.Pos = %+v, expected center", g.ball.Pos)
	}
	// Construction serves Left once from the seed.
	if g.rng != 13957735330327695 {
		t.Errorf("rng = %d, expected 13957735330327695", g.rng)
	}
	if g.ball.Vel != (Vec2{X: fx.Half, Y: -49093}) {
		t.Errorf("ball.Vel = %+v, expected {32768 -49093}", g.ball.Vel)
	}
}

func TestLobbyToCountdown(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Input
		expected Status
	}{
		{"both ready", ready, ready, Countdown(CountdownTicks)},
		{"left only", ready, idle, Lobby()},
		{"right only", idle, ready, Lobby()},
		{"ready with other bits", Input{Buttons: 0xFF}, ready, Countdown(CountdownTicks)},
		{"other bits only", Input{Buttons: 0xFE}, ready, Lobby()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(DefaultConfig())
			evt, err := g.Step(NewInputPair(0, tt.a, tt.b))
			if err != nil {
				t.Fatalf("Step() failed: %v", err)
			}
			if evt != nil {
				t.Errorf("Step() event = %v, expected nil", evt)
			}
			if g.Status() != tt.expected {
				t.Errorf("Status() = %v, expected %v", g.Status(), tt.expected)
			}
			if g.CurrentTick() != 1 {
				t.Errorf("CurrentTick() = %d, expected 1", g.CurrentTick())
			}
		})
	}
}

func TestCountdownToPlaying(t *testing.T) {
	g := New(DefaultConfig())
	g.status = Countdown(1)
	ballBefore := g.ball

	if _, err := g.Step(NewInputPair(0, idle, idle)); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}

	if g.Status() != Playing() {
		t.Errorf("Status() = %v, expected Playing", g.Status())
	}
	if g.ball != ballBefore {
		t.Errorf("ball moved during countdown: %+v", g.ball)
	}
}

func TestCountdownDecrements(t *testing.T) {
	g := New(DefaultConfig())
	g.status = Countdown(5)

	if _, err := g.Step(NewInputPair(0, Input{AxisY: 127}, idle)); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if g.Status() != Countdown(4) {
		t.Errorf("Status() = %v, expected Countdown(4)", g.Status())
	}
	if g.paddles[Left].Y != fx.Half {
		t.Errorf("paddle moved during countdown: %d", g.paddles[Left].Y)
	}
}

func TestStepTickMismatch(t *testing.T) {
	g := New(DefaultConfig())

	_, err := g.Step(NewInputPair(5, ready, ready))
	if !errors.Is(err, ErrTickMismatch) {
		t.Fatalf("Step() error = %v, expected ErrTickMismatch", err)
	}
	if g.CurrentTick() != 0 || g.Status() != Lobby() {
		t.Errorf("state changed on rejected step: tick=%d status=%v", g.CurrentTick(), g.Status())
	}
}

func TestScoring(t *testing.T) {
	g := New(DefaultConfig())
	g.status = Playing()
	g.ball.Pos.X = fx.One + 1000

	evt, err := g.Step(NewInputPair(0, idle, idle))
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}

	scored, ok := evt.(ScoredEvent)
	if !ok {
		t.Fatalf("Step() event = %v, expected ScoredEvent", evt)
	}
	if scored.Scorer != Left || scored.Score != [2]uint8{1, 0} {
		t.Errorf("event = %+v, expected Left scoring [1 0]", scored)
	}
	if g.Status() != Scored(Left, ScoredPauseTicks) {
		t.Errorf("Status() = %v, expected Scored(Left, 180)", g.Status())
	}
}

func TestScoredCountdown(t *testing.T) {
	g := New(DefaultConfig())
	g.status = Scored(Right, 3)

	if _, err := g.Step(NewInputPair(0, idle, idle)); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if g.Status() != Scored(Right, 2) {
		t.Errorf("Status() = %v, expected Scored(Right, 2)", g.Status())
	}
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name   string
		score  [2]uint8
		scorer Side
		winner Side
	}{
		{"left wins", [2]uint8{11, 4}, Left, Left},
		{"right wins", [2]uint8{9, 11}, Right, Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(DefaultConfig())
			g.score = tt.score
			g.status = Scored(tt.scorer, 1)

			if _, err := g.Step(NewInputPair(0, idle, idle)); err != nil {
				t.Fatalf("Step() failed: %v", err)
			}
			if g.Status() != GameOver(tt.winner) {
				t.Errorf("Status() = %v, expected GameOver(%v)", g.Status(), tt.winner)
			}
			winner, ok := g.Winner()
			if !ok || winner != tt.winner {
				t.Errorf("Winner() = %v, %v, expected %v, true", winner, ok, tt.winner)
			}
		})
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	g := New(DefaultConfig())
	g.status = GameOver(Left)
	before := g.Snapshot()

	for i := range 10 {
		if _, err := g.Step(NewInputPair(Tick(i), ready, ready)); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}

	after := g.Snapshot()
	if after.Tick != 10 {
		t.Errorf("Tick = %d, expected 10", after.Tick)
	}
	after.Tick = before.Tick
	if after != before {
		t.Errorf("state changed in GameOver: %+v vs %+v", after, before)
	}
}

func TestServeAfterScore(t *testing.T) {
	g := New(DefaultConfig())
	g.score = [2]uint8{1, 0}
	g.status = Scored(Left, 1)

	if _, err := g.Step(NewInputPair(0, idle, idle)); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}

	if g.Status() != Playing() {
		t.Errorf("Status() = %v, expected Playing", g.Status())
	}
	if g.ball.Pos != (Vec2{X: fx.Half, Y: fx.Half}) {
		t.Errorf("ball.Pos = %+v, expected center", g.ball.Pos)
	}
	// Left scored, so Right serves toward the left.
	if g.ball.Vel.X != -g.config.BallSpeed {
		t.Errorf("ball.Vel.X = %d, expected %d", g.ball.Vel.X, -g.config.BallSpeed)
	}
}

func TestPhysicsEdgeCases(t *testing.T) {
	g := New(DefaultConfig())
	g.status = Playing()

	g.ball.Pos.Y = 0
	g.ball.Vel.Y = -1000
	if _, err := g.Step(NewInputPair(0, idle, idle)); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if g.ball.Pos.Y != 0 || g.ball.Vel.Y <= 0 {
		t.Errorf("bottom bounce: pos.y=%d vel.y=%d", g.ball.Pos.Y, g.ball.Vel.Y)
	}

	g.ball.Pos.Y = fx.One
	g.ball.Vel.Y = 1000
	if _, err := g.Step(NewInputPair(1, idle, idle)); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if g.ball.Pos.Y != fx.One || g.ball.Vel.Y >= 0 {
		t.Errorf("top bounce: pos.y=%d vel.y=%d", g.ball.Pos.Y, g.ball.Vel.Y)
	}
}

func TestExtremeInputsStayInBounds(t *testing.T) {
	g := New(DefaultConfig())
	g.status = Playing()
	half := g.config.PaddleHalfH

	for i := range 120 {
		pair := NewInputPair(Tick(i), Input{AxisY: 127, Buttons: 255}, Input{AxisY: -127})
		if _, err := g.Step(pair); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
		if g.Status().Kind != StatusPlaying {
			break
		}
		for side, p := range g.paddles {
			if p.Y < half || p.Y > fx.One-half {
				t.Fatalf("paddle %d out of bounds: %d", side, p.Y)
			}
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	g1 := New(DefaultConfig())
	g1.tick = 100
	g1.score = [2]uint8{3, 2}
	g1.status = Playing()

	snap := g1.Snapshot()

	g2 := New(DefaultConfig())
	g2.Restore(snap)

	if g2.Snapshot() != snap {
		t.Errorf("Restore() = %+v, expected %+v", g2.Snapshot(), snap)
	}
	if g2.View() != g1.View() {
		t.Errorf("View() after restore differs: %+v vs %+v", g2.View(), g1.View())
	}
}

func TestSnapshotReplay(t *testing.T) {
	g := New(DefaultConfig())
	for _, p := range scriptedPairs(0, 200) {
		if _, err := g.Step(p); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}

	snap := g.Snapshot()
	more := scriptedPairs(200, 300)

	for _, p := range more {
		if _, err := g.Step(p); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
	endA := g.Snapshot()
	if endA.Tick == snap.Tick {
		t.Fatal("expected the game to advance")
	}

	g.Restore(snap)
	if g.Snapshot() != snap {
		t.Fatal("Restore() did not reproduce the snapshot")
	}

	fresh := New(DefaultConfig())
	fresh.Restore(snap)

	for _, p := range more {
		e1, err1 := g.Step(p)
		e2, err2 := fresh.Step(p)
		if err1 != nil || err2 != nil {
			t.Fatalf("Step() failed: %v / %v", err1, err2)
		}
		if e1 != e2 {
			t.Fatalf("events diverged at tick %d: %v vs %v", p.Tick, e1, e2)
		}
	}
	if g.Snapshot() != endA || fresh.Snapshot() != endA {
		t.Error("replay from snapshot did not reproduce the original trajectory")
	}
}

func TestResetMatch(t *testing.T) {
	g := New(DefaultConfig())
	initial := g.Snapshot()

	g.tick = 1000
	g.score = [2]uint8{5, 3}
	g.status = GameOver(Left)
	g.paddles[Left].Y = fx.One / 8
	g.rng = 7

	g.ResetMatch()

	if g.Snapshot() != initial {
		t.Errorf("ResetMatch() = %+v, expected %+v", g.Snapshot(), initial)
	}
}

func TestView(t *testing.T) {
	g := New(DefaultConfig())
	v := g.View()

	if v.Tick != g.tick || v.Status != g.status || v.Score != g.score {
		t.Errorf("View() header mismatch: %+v", v)
	}
	if v.LeftY != g.paddles[Left].Y || v.RightY != g.paddles[Right].Y {
		t.Errorf("View() paddles mismatch: %+v", v)
	}
	if v.PaddleHalfH != g.config.PaddleHalfH || v.BallPos != g.ball.Pos {
		t.Errorf("View() geometry mismatch: %+v", v)
	}
	if v.PaddleY(Right) != v.RightY {
		t.Errorf("PaddleY(Right) = %d, expected %d", v.PaddleY(Right), v.RightY)
	}
}

func TestIsActiveAndStatusString(t *testing.T) {
	tests := []struct {
		status Status
		active bool
		text   string
	}{
		{Lobby(), false, "Waiting for players"},
		{Countdown(10), false, "Get ready..."},
		{Playing(), true, "Playing"},
		{Scored(Left, 10), false, "Point scored!"},
		{GameOver(Left), false, "Game over"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			g := New(DefaultConfig())
			g.status = tt.status
			if g.IsActive() != tt.active {
				t.Errorf("IsActive() = %v, expected %v", g.IsActive(), tt.active)
			}
			if g.StatusString() != tt.text {
				t.Errorf("StatusString() = %q, expected %q", g.StatusString(), tt.text)
			}
		})
	}
}

func TestGameDeterminism(t *testing.T) {
	game1 := New(DefaultConfig())
	game2 := New(DefaultConfig())

	for _, p := range scriptedPairs(0, 3000) {
		e1, err1 := game1.Step(p)
		e2, err2 := game2.Step(p)
		if err1 != nil || err2 != nil {
			t.Fatalf("Step() failed: %v / %v", err1, err2)
		}
		if e1 != e2 {
			t.Fatalf("events diverged at tick %d: %v vs %v", p.Tick, e1, e2)
		}
		if game1.Snapshot() != game2.Snapshot() {
			t.Fatalf("snapshots diverged at tick %d", p.Tick)
		}
	}
}

func TestFullGameFlow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxScore = 3
	g := New(cfg)

	evt, err := g.Step(NewInputPair(0, ready, ready))
	if err != nil || evt != nil {
		t.Fatalf("Step() = %v, %v", evt, err)
	}

	for g.Status().Kind == StatusCountdown {
		if _, err := g.Step(NewInputPair(g.CurrentTick(), idle, idle)); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
	if g.Status() != Playing() {
		t.Fatalf("Status() = %v, expected Playing", g.Status())
	}

	var events []ScoredEvent
	for i := range 3000 {
		if g.Status().Kind == StatusGameOver {
			break
		}
		a, b := Input{AxisY: 100}, Input{AxisY: -100}
		if i%120 >= 60 {
			a, b = b, a
		}
		evt, err := g.Step(NewInputPair(g.CurrentTick(), a, b))
		if err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
		if se, ok := evt.(ScoredEvent); ok {
			events = append(events, se)
		}
	}

	if g.Status().Kind != StatusGameOver {
		t.Fatalf("Status() = %v, expected GameOver", g.Status())
	}
	winner, ok := g.Winner()
	if !ok {
		t.Fatal("Winner() reported no winner")
	}
	score := g.Score()
	if score[winner] != cfg.MaxScore {
		t.Errorf("winner %v score = %d, expected %d", winner, score[winner], cfg.MaxScore)
	}
	if len(events) != int(score[0])+int(score[1]) {
		t.Errorf("got %d scored events for score %v", len(events), score)
	}
	if last := events[len(events)-1]; last.Score != score || last.Scorer != winner {
		t.Errorf("last event = %+v, expected final score %v by %v", last, score, winner)
	}
}

// scriptedPairs returns a deterministic mix of ready presses and paddle moves.
func scriptedPairs(from, to Tick) []InputPair {
	pairs := make([]InputPair, 0, to-from)
	state := uint32(from)*2654435761 + 1
	for tick := from; tick < to; tick++ {
		state = state*1664525 + 1013904223
		a := Input{AxisY: int8(state >> 24), Buttons: ButtonReady}
		b := Input{AxisY: int8(state >> 16), Buttons: ButtonReady}
		if tick%50 < 10 {
			a.AxisY, b.AxisY = 0, 0
		}
		pairs = append(pairs, NewInputPair(tick, a, b))
	}
	return pairs
}

func TestStepRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		tickHz uint32
		divErr bool
	}{
		{"zero tick rate", 0, true},
		{"tick rate overflows the divisor", 65536, false},
		{"tick rate above maximum", MaxTickHz + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TickHz = tt.tickHz
			g := New(cfg)

			for range CountdownTicks + 2 {
				_, err := g.Step(NewInputPair(g.CurrentTick(), ready, ready))
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("Step() error = %v, expected %v", err, ErrInvalidConfig)
				}
				if tt.divErr && !errors.Is(err, fx.ErrDivisionByZero) {
					t.Fatalf("Step() error = %v, expected %v", err, fx.ErrDivisionByZero)
				}
			}
			if g.CurrentTick() != 0 || g.Status() != Lobby() {
				t.Errorf("CurrentTick() = %d, Status() = %v, expected 0, Lobby", g.CurrentTick(), g.Status())
			}
		})
	}
}

package fx

import (
	"errors"
	"math"
	"testing"
)

func TestMul(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Fx
		expected Fx
	}{
		{"one times one", One, One, One},
		{"half times half", Half, Half, Quarter},
		{"negative", -One, Half, -Half},
		{"two times three", FromInt(2), FromInt(3), FromInt(6)},
		{"zero", Zero, FromInt(100), Zero},
		// 200*200 overflows int32 backing math without the wide intermediate.
		{"wide intermediate", FromInt(200), FromInt(100), FromInt(20000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mul(tt.a, tt.b); got != tt.expected {
				t.Errorf("Mul(%d, %d) = %d, expected %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestDiv(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Fx
		expected Fx
	}{
		{"one by one", One, One, One},
		{"one by two", One, FromInt(2), Half},
		{"negative", -One, FromInt(4), -Quarter},
		{"per tick", Half, FromInt(60), 546},
		{"truncates toward zero", -Half, FromInt(60), -546},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Div(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Div() failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Div(%d, %d) = %d, expected %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestDivByZero(t *testing.T) {
	_, err := Div(One, 0)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div(One, 0) error = %v, expected ErrDivisionByZero", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustDiv(One, 0) should panic")
		}
	}()
	MustDiv(One, 0)
}

func TestFloatConversion(t *testing.T) {
	tests := []struct {
		in       float64
		expected Fx
	}{
		{1.0, One},
		{0.5, Half},
		{0.125, One / 8},
		{0.05, 3276},
		{0.025, 1638},
		{1.0 / 32, 2048},
		{1.05, One + One/20},
		{-0.25, -Quarter},
	}

	for _, tt := range tests {
		if got := FromFloat(tt.in); got != tt.expected {
			t.Errorf("FromFloat(%v) = %d, expected %d", tt.in, got, tt.expected)
		}
	}

	if got := Half.ToFloat(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Half.ToFloat() = %v, expected 0.5", got)
	}
}

func TestClampAbs(t *testing.T) {
	if got := Clamp(FromInt(2), Zero, One); got != One {
		t.Errorf("Clamp(2, 0, 1) = %v, expected 1", got)
	}
	if got := Clamp(-One, Zero, One); got != Zero {
		t.Errorf("Clamp(-1, 0, 1) = %v, expected 0", got)
	}
	if got := Clamp(Half, Zero, One); got != Half {
		t.Errorf("Clamp(0.5, 0, 1) = %v, expected 0.5", got)
	}
	if got := (-Half).Abs(); got != Half {
		t.Errorf("Abs(-0.5) = %v, expected 0.5", got)
	}
	if (-Half).Sign() != -1 || Zero.Sign() != 0 || Half.Sign() != 1 {
		t.Error("Sign() returned unexpected values")
	}
}

func TestString(t *testing.T) {
	if got := Half.String(); got != "0.5000" {
		t.Errorf("Half.String() = %q, expected %q", got, "0.5000")
	}
}

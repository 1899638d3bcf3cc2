// Package fx implements the 16.16 signed fixed-point scalar used by the
// simulation. Every multiply and divide goes through a 64-bit intermediate
// so results are identical on every platform.
package fx

import (
	"errors"
	"fmt"
	"strconv"
)

// Fractional bits in the representation.
const Shift = 16

// Fx is a fixed-point number: the real value is int32(f) / 2^16.
type Fx int32

// Common constants.
const (
	Zero    Fx = 0
	One     Fx = 1 << Shift
	Half    Fx = One / 2
	Quarter Fx = One / 4
)

// ErrDivisionByZero is returned by Div when the divisor is zero.
var ErrDivisionByZero = errors.New("fx: division by zero")

// FromInt converts a whole number to fixed-point.
func FromInt(n int32) Fx {
	return Fx(n << Shift)
}

// FromFloat converts a float to fixed-point, truncating toward zero.
func FromFloat(f float64) Fx {
	return Fx(int32(f * float64(One)))
}

// ToFloat converts to a float for display and input shaping only.
func (f Fx) ToFloat() float64 {
	return float64(f) / float64(One)
}

// Raw returns the backing integer.
func (f Fx) Raw() int32 {
	return int32(f)
}

// String renders the value as a decimal with four fraction digits.
func (f Fx) String() string {
	return strconv.FormatFloat(f.ToFloat(), 'f', 4, 64)
}

// Mul returns (a*b) >> 16 using a 64-bit intermediate.
func Mul(a, b Fx) Fx {
	return Fx((int64(a) * int64(b)) >> Shift)
}

// Div returns (a << 16) / b using a 64-bit intermediate.
func Div(a, b Fx) (Fx, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, a)
	}
	return Fx((int64(a) << Shift) / int64(b)), nil
}

// MustDiv is Div for divisors known to be non-zero (constants, validated config).
// It panics on a zero divisor.
func MustDiv(a, b Fx) Fx {
	q, err := Div(a, b)
	if err != nil {
		panic(err)
	}
	return q
}

// Mul multiplies f by other.
func (f Fx) Mul(other Fx) Fx {
	return Mul(f, other)
}

// Abs returns the absolute value.
func (f Fx) Abs() Fx {
	if f < 0 {
		return -f
	}
	return f
}

// Sign returns -1, 0, or 1.
func (f Fx) Sign() int {
	if f < 0 {
		return -1
	}
	if f > 0 {
		return 1
	}
	return 0
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi Fx) Fx {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

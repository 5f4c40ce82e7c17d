package core

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Classify returns the fizzbuzz Outcome for an integer of any width.
// Negative values follow Go's truncated remainder, so -3 is Fizz and
// -1 is Number("-1").
func Classify[T constraints.Integer](n T) Outcome {
	fizz, buzz := n%3 == 0, n%5 == 0
	switch {
	case fizz && buzz:
		return FizzBuzz
	case fizz:
		return Fizz
	case buzz:
		return Buzz
	}
	return Number(formatInteger(n))
}

// ClassifyFloat returns the fizzbuzz Outcome for a floating-point value.
// The remainder is compared to zero exactly, with no epsilon: 3.0 is Fizz
// while 3.2 is Number("3.2"). NaN and infinities are always Numbers.
func ClassifyFloat[T constraints.Float](x T) Outcome {
	f := float64(x)
	fizz, buzz := math.Mod(f, 3) == 0, math.Mod(f, 5) == 0
	switch {
	case fizz && buzz:
		return FizzBuzz
	case fizz:
		return Fizz
	case buzz:
		return Buzz
	}
	return Number(formatFloat(x))
}

// Numeric is the extension point for number types outside Go's built-in
// integers and floats. T is normally the implementing type itself.
//
// Literal constructs one of the small literals 0, 3 and 5 in T, reporting
// false when T cannot represent it. Rem returns the receiver modulo d.
type Numeric[T any] interface {
	Literal(v uint8) (T, bool)
	Rem(d T) T
	Equal(other T) bool
	String() string
}

// ClassifyNumeric returns the fizzbuzz Outcome for a custom Numeric type.
//
// If T cannot construct any of 0, 3 or 5, every value classifies as
// Number(v.String()). This echo fallback is intentional: such a type has no
// meaningful notion of divisibility by 3 or 5. Use Supports to detect it.
func ClassifyNumeric[T Numeric[T]](v T) Outcome {
	three, ok := v.Literal(3)
	if !ok {
		return Number(v.String())
	}
	five, ok := v.Literal(5)
	if !ok {
		return Number(v.String())
	}
	zero, ok := v.Literal(0)
	if !ok {
		return Number(v.String())
	}

	fizz, buzz := v.Rem(three).Equal(zero), v.Rem(five).Equal(zero)
	switch {
	case fizz && buzz:
		return FizzBuzz
	case fizz:
		return Fizz
	case buzz:
		return Buzz
	}
	return Number(v.String())
}

// Supports reports whether T can construct the literals 0, 3 and 5.
// When it returns false, ClassifyNumeric echoes every value of T.
func Supports[T Numeric[T]](v T) bool {
	for _, lit := range [...]uint8{0, 3, 5} {
		if _, ok := v.Literal(lit); !ok {
			return false
		}
	}
	return true
}

// formatInteger renders n in base 10. Types implementing fmt.Stringer use
// their own display form.
func formatInteger[T constraints.Integer](n T) string {
	if s, ok := any(n).(fmt.Stringer); ok {
		return s.String()
	}
	if ^T(0) < 0 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatUint(uint64(n), 10)
}

// formatFloat renders x in the shortest decimal form that round-trips at
// its own precision, without an exponent: 3.2 -> "3.2", 1.0 -> "1".
func formatFloat[T constraints.Float](x T) string {
	if s, ok := any(x).(fmt.Stringer); ok {
		return s.String()
	}
	return strconv.FormatFloat(float64(x), 'f', -1, int(unsafe.Sizeof(x))*8)
}

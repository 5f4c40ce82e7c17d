// package core defines the fizzbuzz answer type, the generic classifiers
// that produce it, and the error taxonomy shared by the batch and boundary
// layers.
//
// NOTE: apart from golang.org/x/exp/constraints this package should have no
// dependencies outside the standard library, including other fizzbuzz
// packages.
package core

import "fmt"

// Kind identifies which of the four fizzbuzz answers an Outcome holds.
type Kind uint8

const (
	// KindNumber means the value was divisible by neither 3 nor 5.
	KindNumber Kind = iota
	KindFizz
	KindBuzz
	KindFizzBuzz
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindFizz:
		return "fizz"
	case KindBuzz:
		return "buzz"
	case KindFizzBuzz:
		return "fizzbuzz"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Outcome is the answer to fizzbuzz for a single value.
// It exists in exactly one of four states:
//   - Fizz: divisible by 3 only
//   - Buzz: divisible by 5 only
//   - FizzBuzz: divisible by both
//   - Number: divisible by neither; carries the value's display text
//
// Outcome is a comparable value type and can be used as a map key.
type Outcome struct {
	kind Kind
	text string
}

var (
	Fizz     = Outcome{kind: KindFizz}
	Buzz     = Outcome{kind: KindBuzz}
	FizzBuzz = Outcome{kind: KindFizzBuzz}
)

// Number creates a Number outcome carrying the given display text.
func Number(text string) Outcome {
	return Outcome{kind: KindNumber, text: text}
}

// Kind returns which answer this Outcome holds.
func (o Outcome) Kind() Kind {
	return o.kind
}

// IsNumber returns true if the value was divisible by neither 3 nor 5.
func (o Outcome) IsNumber() bool {
	return o.kind == KindNumber
}

// Text returns the display text carried by a Number outcome.
// Returns the empty string for Fizz, Buzz and FizzBuzz.
func (o Outcome) Text() string {
	if o.kind != KindNumber {
		return ""
	}
	return o.text
}

// String returns the canonical textual form: "fizz", "buzz", "fizzbuzz",
// or the number's display text.
func (o Outcome) String() string {
	switch o.kind {
	case KindFizz:
		return "fizz"
	case KindBuzz:
		return "buzz"
	case KindFizzBuzz:
		return "fizzbuzz"
	default:
		return o.text
	}
}

// MarshalText encodes the Outcome as its canonical string, so a slice of
// Outcomes marshals to a JSON array of strings.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Package boundary adapts dynamically typed input to the classifier and the
// batch processor. It is the layer behind the CLI and any other caller that
// receives untyped values: it accepts a single number, a list of numbers or
// a start/stop/step slice, rejects everything else with a type mismatch, and
// renders the answers as strings.
package boundary

import (
	"fmt"
	"math/big"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
)

// ArgKind identifies the shape of an Arg.
type ArgKind uint8

const (
	// ArgInvalid is the zero Arg. Calling with it is an error.
	ArgInvalid ArgKind = iota
	ArgInt
	ArgFloat
	// ArgBig is an integer outside the int64 range.
	ArgBig
	ArgIntList
	ArgFloatList
	ArgSlice
)

func (k ArgKind) String() string {
	switch k {
	case ArgInt:
		return "int"
	case ArgFloat:
		return "float"
	case ArgBig:
		return "bigint"
	case ArgIntList:
		return "int list"
	case ArgFloatList:
		return "float list"
	case ArgSlice:
		return "slice"
	default:
		return "invalid"
	}
}

// IsList reports whether arguments of this kind produce a list of answers.
func (k ArgKind) IsList() bool {
	return k == ArgIntList || k == ArgFloatList || k == ArgSlice
}

// Arg is one of the accepted input shapes. Exactly one payload field is
// meaningful, selected by kind.
type Arg struct {
	kind   ArgKind
	i      int64
	f      float64
	big    *big.Int
	ints   []int64
	floats []float64
	rng    batch.RangeSpec[int64]
}

// IntArg wraps a single integer.
func IntArg(n int64) Arg {
	return Arg{kind: ArgInt, i: n}
}

// FloatArg wraps a single floating-point value.
func FloatArg(x float64) Arg {
	return Arg{kind: ArgFloat, f: x}
}

// BigArg wraps an integer of any size. Values that fit in an int64 become
// an IntArg.
func BigArg(n *big.Int) Arg {
	if n == nil {
		return IntArg(0)
	}
	if n.IsInt64() {
		return IntArg(n.Int64())
	}
	return Arg{kind: ArgBig, big: n}
}

// IntListArg wraps a list of integers. The slice is not copied.
func IntListArg(ns []int64) Arg {
	return Arg{kind: ArgIntList, ints: ns}
}

// FloatListArg wraps a list of floating-point values. The slice is not
// copied.
func FloatListArg(xs []float64) Arg {
	return Arg{kind: ArgFloatList, floats: xs}
}

// SliceArg wraps the range [start, stop) with an optional step. Without a
// step the range counts up by one. A zero step is accepted here and
// rejected by Call.
func SliceArg(start, stop int64, step ...int64) Arg {
	r := batch.Range(start, stop)
	switch len(step) {
	case 0:
	case 1:
		r = r.By(step[0])
	default:
		panic("boundary: SliceArg takes at most one step")
	}
	return Arg{kind: ArgSlice, rng: r}
}

// Kind returns the shape of the argument.
func (a Arg) Kind() ArgKind {
	return a.kind
}

// Len returns the number of answers Call will produce for a valid argument.
func (a Arg) Len() int {
	switch a.kind {
	case ArgInt, ArgFloat, ArgBig:
		return 1
	case ArgIntList:
		return len(a.ints)
	case ArgFloatList:
		return len(a.floats)
	case ArgSlice:
		return a.rng.Len()
	default:
		return 0
	}
}

// String describes the argument for logs and error messages. Lists are
// summarized by length.
func (a Arg) String() string {
	switch a.kind {
	case ArgInt:
		return fmt.Sprintf("int(%d)", a.i)
	case ArgFloat:
		return fmt.Sprintf("float(%g)", a.f)
	case ArgBig:
		return fmt.Sprintf("bigint(%s)", a.big)
	case ArgIntList, ArgFloatList:
		return fmt.Sprintf("%s[%d]", a.kind, a.Len())
	case ArgSlice:
		return fmt.Sprintf("slice(%s)", a.rng)
	default:
		return "invalid"
	}
}

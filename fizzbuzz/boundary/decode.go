package boundary

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/samber/lo"
	"golang.org/x/exp/constraints"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

// want names the accepted shapes in type mismatch errors.
const want = "number, list of numbers or slice"

// Slice is the struct form of a slice argument, as decoded from
// {"start": 1, "stop": 16, "step": 2}.
type Slice struct {
	Start int64  `json:"start"`
	Stop  int64  `json:"stop"`
	Step  *int64 `json:"step,omitempty"`
}

// Arg converts s to a slice Arg.
func (s Slice) Arg() Arg {
	if s.Step == nil {
		return SliceArg(s.Start, s.Stop)
	}
	return SliceArg(s.Start, s.Stop, *s.Step)
}

// Decode converts a dynamically typed value to an Arg. It accepts:
//   - any Go integer or float type, json.Number, *big.Int and core.BigInt
//   - slices of any Go integer type except []byte, slices of floats, and
//     []any holding numbers
//   - a Slice, *Slice, or a map[string]any with "start", "stop" and an
//     optional "step"
//   - an Arg, returned unchanged
//
// A list is an int list when every element is integral, and a float list
// otherwise. Anything else fails with a *core.TypeMismatchError.
func Decode(v any) (Arg, error) {
	switch v := v.(type) {
	case Arg:
		return v, nil
	case int:
		return IntArg(int64(v)), nil
	case int8:
		return IntArg(int64(v)), nil
	case int16:
		return IntArg(int64(v)), nil
	case int32:
		return IntArg(int64(v)), nil
	case int64:
		return IntArg(v), nil
	case uint:
		return unsignedArg(v), nil
	case uint8:
		return IntArg(int64(v)), nil
	case uint16:
		return IntArg(int64(v)), nil
	case uint32:
		return IntArg(int64(v)), nil
	case uint64:
		return unsignedArg(v), nil
	case float32:
		return FloatArg(float64(v)), nil
	case float64:
		return FloatArg(v), nil
	case json.Number:
		return decodeNumber(v)
	case *big.Int:
		if v == nil {
			return Arg{}, core.NewTypeMismatch(v, want)
		}
		return BigArg(v), nil
	case core.BigInt:
		return BigArg(v.Int), nil
	case []int:
		return IntListArg(widen(v)), nil
	case []int8:
		return IntListArg(widen(v)), nil
	case []int16:
		return IntListArg(widen(v)), nil
	case []int32:
		return IntListArg(widen(v)), nil
	case []int64:
		return IntListArg(v), nil
	case []uint16:
		return IntListArg(widen(v)), nil
	case []uint32:
		return IntListArg(widen(v)), nil
	case []uint:
		return unsignedList(v)
	case []uint64:
		return unsignedList(v)
	case []float32:
		return decodeFloats(lo.Map(v, func(x float32, _ int) float64 { return float64(x) })), nil
	case []float64:
		return decodeFloats(v), nil
	case []any:
		return decodeList(v)
	case Slice:
		return v.Arg(), nil
	case *Slice:
		if v == nil {
			return Arg{}, core.NewTypeMismatch(v, want)
		}
		return v.Arg(), nil
	case map[string]any:
		return decodeSlice(v)
	default:
		return Arg{}, core.NewTypeMismatch(v, want)
	}
}

func widen[T constraints.Integer](ns []T) []int64 {
	return lo.Map(ns, func(n T, _ int) int64 { return int64(n) })
}

func unsignedArg[T uint | uint64](n T) Arg {
	if uint64(n) <= math.MaxInt64 {
		return IntArg(int64(n))
	}
	return BigArg(new(big.Int).SetUint64(uint64(n)))
}

// unsignedList rejects elements beyond int64, like big list elements.
func unsignedList[T uint | uint64](ns []T) (Arg, error) {
	ints := make([]int64, len(ns))
	for i, n := range ns {
		if uint64(n) > math.MaxInt64 {
			return Arg{}, fmt.Errorf("%w: list element %d (%d) overflows int64", core.ErrInvalidArgument, i, n)
		}
		ints[i] = int64(n)
	}
	return IntListArg(ints), nil
}

// decodeNumber keeps integers exact: values that overflow int64 become big
// integers rather than floats.
func decodeNumber(n json.Number) (Arg, error) {
	if i, err := n.Int64(); err == nil {
		return IntArg(i), nil
	}
	if b, ok := new(big.Int).SetString(string(n), 10); ok {
		return BigArg(b), nil
	}
	f, err := n.Float64()
	if err != nil {
		return Arg{}, fmt.Errorf("%w: number %s is out of range", core.ErrInvalidArgument, n)
	}
	return FloatArg(f), nil
}

// integral reports whether x is a whole number representable as an int64.
func integral(x float64) (int64, bool) {
	if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
		return 0, false
	}
	return int64(x), true
}

func decodeFloats(xs []float64) Arg {
	ints := make([]int64, len(xs))
	for i, x := range xs {
		n, ok := integral(x)
		if !ok {
			return FloatListArg(xs)
		}
		ints[i] = n
	}
	return IntListArg(ints)
}

func decodeList(vs []any) (Arg, error) {
	ints := make([]int64, 0, len(vs))
	var floats []float64

	for i, v := range vs {
		elem, err := Decode(v)
		if err != nil {
			return Arg{}, err
		}

		switch elem.kind {
		case ArgInt:
			if floats != nil {
				floats = append(floats, float64(elem.i))
				continue
			}
			ints = append(ints, elem.i)
		case ArgFloat:
			if floats == nil {
				if n, ok := integral(elem.f); ok {
					ints = append(ints, n)
					continue
				}
				floats = make([]float64, 0, len(vs))
				for _, n := range ints {
					floats = append(floats, float64(n))
				}
			}
			floats = append(floats, elem.f)
		case ArgBig:
			return Arg{}, fmt.Errorf("%w: list element %d (%s) overflows int64", core.ErrInvalidArgument, i, elem.big)
		default:
			return Arg{}, core.NewTypeMismatch(v, "number")
		}
	}

	if floats != nil {
		return FloatListArg(floats), nil
	}
	return IntListArg(ints), nil
}

func decodeSlice(m map[string]any) (Arg, error) {
	var (
		s                 Slice
		hasStart, hasStop bool
	)
	for key, v := range m {
		n, err := sliceBound(key, v)
		if err != nil {
			return Arg{}, err
		}
		switch key {
		case "start":
			s.Start, hasStart = n, true
		case "stop":
			s.Stop, hasStop = n, true
		case "step":
			s.Step = &n
		default:
			return Arg{}, &core.TypeMismatchError{Got: fmt.Sprintf("slice field %q", key), Want: want}
		}
	}
	if !hasStart || !hasStop {
		return Arg{}, &core.TypeMismatchError{Got: "slice without start and stop", Want: want}
	}
	return s.Arg(), nil
}

func sliceBound(key string, v any) (int64, error) {
	arg, err := Decode(v)
	if err != nil {
		return 0, core.NewTypeMismatch(v, "integer "+key)
	}
	switch arg.kind {
	case ArgInt:
		return arg.i, nil
	case ArgFloat:
		if n, ok := integral(arg.f); ok {
			return n, nil
		}
	}
	return 0, core.NewTypeMismatch(v, "integer "+key)
}

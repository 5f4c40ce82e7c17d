package batch

import (
	"context"
	"fmt"
	"iter"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

// RangeSpec describes the arithmetic progression start, start+step, ...
// bounded by stop (exclusive). Build one with Range and optionally By:
//
//	batch.Range(1, 16)          // 1..15
//	batch.Range(15, 0).By(-3)   // 15, 12, 9, 6, 3
//
// A zero step is invalid and rejected by Validate. A step whose sign points
// away from stop yields an empty range, not an error.
//
// Length and element arithmetic is exact for every integer width,
// including ranges that span the whole of int64 or uint64.
type RangeSpec[T constraints.Integer] struct {
	Start T
	Stop  T

	step    T
	stepSet bool
}

// Range creates a RangeSpec over [start, stop) with step 1.
func Range[T constraints.Integer](start, stop T) RangeSpec[T] {
	return RangeSpec[T]{Start: start, Stop: stop}
}

// By returns a copy of r with the given step.
func (r RangeSpec[T]) By(step T) RangeSpec[T] {
	r.step = step
	r.stepSet = true
	return r
}

// Step returns the step, 1 when none was set.
func (r RangeSpec[T]) Step() T {
	if !r.stepSet {
		return 1
	}
	return r.step
}

// Validate returns core.ErrInvalidStep if the step is zero, and
// core.ErrInvalidArgument if the range holds more than MaxLen values.
func (r RangeSpec[T]) Validate() error {
	if r.Step() == 0 {
		return fmt.Errorf("range %v:%v:%v: %w", r.Start, r.Stop, r.step, core.ErrInvalidStep)
	}
	if r.Len() > MaxLen {
		return fmt.Errorf("range %v: %w: too large, more than %d values", r, core.ErrInvalidArgument, MaxLen)
	}
	return nil
}

// Len returns the number of elements. Invalid ranges have no elements.
// Lengths beyond math.MaxInt are clamped.
func (r RangeSpec[T]) Len() int {
	step := r.Step()
	var span, stride uint64
	switch {
	case step > 0:
		if r.Stop <= r.Start {
			return 0
		}
		// Two's-complement subtraction in uint64 gives the exact distance.
		span = uint64(r.Stop) - uint64(r.Start)
		stride = uint64(step)
	case step < 0:
		if r.Stop >= r.Start {
			return 0
		}
		span = uint64(r.Start) - uint64(r.Stop)
		stride = -uint64(step)
	default:
		return 0
	}

	n := (span-1)/stride + 1
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// At returns start + i*step. The caller guarantees 0 <= i < Len().
func (r RangeSpec[T]) At(i int) T {
	return T(uint64(r.Start) + uint64(i)*uint64(r.Step()))
}

func (r RangeSpec[T]) Values(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if err := r.Validate(); err != nil {
			var zero T
			yield(zero, err)
			return
		}
		n := r.Len()
		for i := 0; i < n; i++ {
			if !yield(r.At(i), nil) {
				return
			}
		}
	}
}

func (r RangeSpec[T]) String() string {
	return fmt.Sprintf("%v:%v:%v", r.Start, r.Stop, r.Step())
}

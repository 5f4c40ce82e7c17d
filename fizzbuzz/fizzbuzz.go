// Package fizzbuzz answers fizzbuzz for single numbers and for batches of
// numbers, switching between sequential and parallel evaluation by batch
// size.
//
// This package is the primary user-facing API. Most users should only
// need to import this package. The core, batch and format subpackages
// hold the underlying types and are rarely needed directly.
//
//	fizzbuzz.Classify(15)                // fizzbuzz
//	outcomes, err := fizzbuzz.Integers(ctx, fizzbuzz.Range(1, 101))
//	fmt.Println(fizzbuzz.Join(outcomes)) // 1, 2, fizz, 4, buzz, ...
package fizzbuzz

import (
	"context"
	"iter"

	"golang.org/x/exp/constraints"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/format"
)

// Type aliases for the answer and batch abstractions.
// These allow users to work with the library without importing the
// subpackages directly.
type (
	// Outcome is the answer for a single value: Fizz, Buzz, FizzBuzz or a
	// Number carrying the value's display text.
	Outcome = core.Outcome

	// Kind identifies which of the four answers an Outcome holds.
	Kind = core.Kind

	// Numeric is the extension point for number types beyond Go's integers
	// and floats.
	Numeric[T any] = core.Numeric[T]

	// Batch is a collection of numbers classified in one call.
	Batch[T any] = batch.Batch[T]

	// RangeSpec is an arithmetic progression used as a Batch.
	RangeSpec[T constraints.Integer] = batch.RangeSpec[T]

	// Processor holds the dispatch configuration for batches.
	Processor = batch.Processor

	// Option configures a Processor.
	Option = batch.Option
)

// The three divisibility answers.
var (
	Fizz     = core.Fizz
	Buzz     = core.Buzz
	FizzBuzz = core.FizzBuzz
)

// Errors returned by batch and boundary operations.
var (
	ErrInvalidArgument = core.ErrInvalidArgument
	ErrInvalidStep     = core.ErrInvalidStep
	ErrTypeMismatch    = core.ErrTypeMismatch
)

// DefaultThreshold is the batch size from which batches run in parallel.
const DefaultThreshold = batch.DefaultThreshold

// Classifiers.

// Classify returns the answer for an integer.
func Classify[T constraints.Integer](n T) Outcome {
	return core.Classify(n)
}

// ClassifyFloat returns the answer for a floating-point value.
func ClassifyFloat[T constraints.Float](x T) Outcome {
	return core.ClassifyFloat(x)
}

// ClassifyNumeric returns the answer for a custom Numeric value.
func ClassifyNumeric[T Numeric[T]](v T) Outcome {
	return core.ClassifyNumeric(v)
}

// Batch constructors.

// Of creates a Batch from the given values.
func Of[T any](values ...T) batch.Slice[T] {
	return batch.Of(values...)
}

// Range creates the batch start, start+1, ..., stop-1. Use By on the result
// to set a step.
func Range[T constraints.Integer](start, stop T) RangeSpec[T] {
	return batch.Range(start, stop)
}

// FromSeq creates a Batch of unknown size from an iterator.
func FromSeq[T any](seq iter.Seq[T]) Batch[T] {
	return batch.FromSeq(seq)
}

// Processor construction.

// New creates a Processor.
func New(opts ...Option) *Processor {
	return batch.New(opts...)
}

// WithThreshold sets the size from which batches run in parallel.
func WithThreshold(n int) Option {
	return batch.WithThreshold(n)
}

// WithWorkers sets the worker pool size for the parallel path.
func WithWorkers(n int) Option {
	return batch.WithWorkers(n)
}

// Batch operations. They use the Processor attached to ctx with
// batch.WithProcessor, or the default.

// Integers classifies a batch of integers.
func Integers[T constraints.Integer](ctx context.Context, b Batch[T]) ([]Outcome, error) {
	return batch.Integers(ctx, nil, b)
}

// Floats classifies a batch of floating-point values.
func Floats[T constraints.Float](ctx context.Context, b Batch[T]) ([]Outcome, error) {
	return batch.Floats(ctx, nil, b)
}

// Formatting.

// Join renders outcomes as "1, 2, fizz, 4, buzz".
func Join(outcomes []Outcome) string {
	return format.Joined(outcomes)
}

// Strings returns the text of each outcome.
func Strings(outcomes []Outcome) []string {
	return format.Strings(outcomes)
}
